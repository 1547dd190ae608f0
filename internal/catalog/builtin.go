// Package catalog holds the built-in game modes and their content. The data is
// loaded once at process start and never mutated; the seed command copies it
// into Postgres for deployments that serve catalogs from the database.
package catalog

import (
	"fmt"

	"rights-arcade/internal/domain"
)

// Mode IDs of the built-in arcade.
const (
	RightsQuiz      domain.ModeID = "rights-quiz"
	SafetyScenarios domain.ModeID = "safety-scenarios"
	QuizChallenges  domain.ModeID = "quiz-challenges"
	Courtroom       domain.ModeID = "courtroom"
	RightsJar       domain.ModeID = "rights-jar"
	MatchTheRights  domain.ModeID = "match-the-rights"
)

// Guilty and NotGuilty are the two verdict options of a courtroom case.
const (
	Guilty    = "Guilty"
	NotGuilty = "Not guilty"
)

// Modes returns the game list in display order.
func Modes() []domain.ModeSpec {
	return []domain.ModeSpec{
		{ID: RightsQuiz, Title: "Know Your Rights Quiz", Description: "Test your knowledge about children's rights in India.", Kind: domain.KindQuiz, SampleSize: 5, Countdown: 30},
		{ID: SafetyScenarios, Title: "Safety Scenarios", Description: "Learn how to handle real-life situations.", Kind: domain.KindScenario, SampleSize: 5, Countdown: 30},
		{ID: QuizChallenges, Title: "Quiz Challenges", Description: "Basic, intermediate and advanced questions in one bank.", Kind: domain.KindQuiz, SampleSize: 5, Countdown: 30},
		{ID: Courtroom, Title: "Courtroom Simulator", Description: "Hear the case and deliver the verdict.", Kind: domain.KindCourtroom},
		{ID: MatchTheRights, Title: "Match The Rights", Description: "Match each situation with the right that protects it.", Kind: domain.KindMatching},
		{
			ID: RightsJar, Title: "The Rights Jar", Description: "Pick the correct chit from the jar for each right.", Kind: domain.KindRightsJar, SampleSize: 5, Countdown: 30,
			Badge: &domain.Badge{Name: "Rights Champion", Description: "Awarded for mastering children's rights knowledge", MinCorrect: 4},
		},
	}
}

// Catalogs returns the built-in content keyed by mode.
func Catalogs() map[domain.ModeID]domain.Catalog {
	return map[domain.ModeID]domain.Catalog{
		RightsQuiz:      {Mode: RightsQuiz, Entities: withIDs(RightsQuiz, rightsQuiz())},
		SafetyScenarios: {Mode: SafetyScenarios, Entities: withIDs(SafetyScenarios, safetyScenarios())},
		QuizChallenges:  {Mode: QuizChallenges, Entities: withIDs(QuizChallenges, quizChallenges())},
		Courtroom:       {Mode: Courtroom, Entities: withIDs(Courtroom, courtroomCases())},
		RightsJar:       {Mode: RightsJar, Entities: withIDs(RightsJar, jarRounds())},
		MatchTheRights:  {Mode: MatchTheRights, Pairs: matchPairs()},
	}
}

func withIDs(mode domain.ModeID, entities []domain.Entity) []domain.Entity {
	for i := range entities {
		if entities[i].ID == "" {
			entities[i].ID = fmt.Sprintf("%s-%d", mode, i+1)
		}
	}
	return entities
}

func ref(text, url, authority string) *domain.Reference {
	return &domain.Reference{Text: text, URL: url, Authority: authority}
}

func question(kind domain.Kind, prompt string, options []string, correct int, explanation string, reference *domain.Reference) domain.Entity {
	return domain.Entity{
		Kind:         kind,
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: correct,
		Explanation:  explanation,
		Reference:    reference,
	}
}

func rightsQuiz() []domain.Entity {
	q := func(prompt string, options []string, correct int, explanation string, reference *domain.Reference) domain.Entity {
		return question(domain.KindQuiz, prompt, options, correct, explanation, reference)
	}
	return []domain.Entity{
		q("What is the legal age for voting in India?", []string{"16 years", "18 years", "21 years", "25 years"}, 1,
			"In India, citizens who are 18 years or older have the right to vote.",
			ref("Election Commission of India - Voter Eligibility", "https://eci.gov.in/voter/voter-eligibility/", "Verified by Election Commission of India (ECI)")),
		q("Under which article of the Indian Constitution is free education guaranteed?", []string{"Article 21", "Article 21A", "Article 22", "Article 23"}, 1,
			"Article 21A makes free education a fundamental right for children between 6-14 years of age.",
			ref("Ministry of Education - RTE Act", "https://mhrd.gov.in/rte", "Verified by Ministry of Education, Government of India")),
		q("What is POCSO Act primarily concerned with?", []string{"Child Education", "Child Labor", "Child Protection from Sexual Offenses", "Child Nutrition"}, 2,
			"The POCSO Act protects children from sexual assault, harassment, and pornography.",
			ref("Ministry of Women and Child Development - POCSO Act", "https://wcd.nic.in/act/protection-children-sexual-offences-pocso-act-2012", "Verified by Ministry of Women and Child Development")),
		q("Which helpline number is dedicated to children in distress?", []string{"100", "101", "1098", "112"}, 2,
			"1098 is CHILDLINE, India's 24/7 emergency helpline for children in need of care and protection.",
			ref("CHILDLINE India Foundation - About 1098", "https://www.childlineindia.org/a/about/1098", "Verified by CHILDLINE India Foundation")),
		q("What is the minimum age for creating a social media account?", []string{"10 years", "13 years", "16 years", "18 years"}, 1,
			"Most social media platforms require users to be at least 13 years old to create an account.",
			ref("UNICEF - Guidelines for Social Media Use", "https://www.unicef.org/online-safety", "Verified by UNICEF")),
		q("Which organization is responsible for protecting child rights in India?", []string{"NCPCR", "UNESCO", "WHO", "UNICEF"}, 0,
			"The National Commission for Protection of Child Rights (NCPCR) is the primary body for protecting child rights in India.",
			ref("NCPCR - About Us", "https://ncpcr.gov.in/", "Verified by National Commission for Protection of Child Rights")),
		q("What is the legal age of marriage for girls in India?", []string{"16 years", "18 years", "21 years", "No minimum age"}, 1,
			"The legal age of marriage for girls in India is 18 years under the Prohibition of Child Marriage Act.",
			ref("Ministry of Law and Justice - Prohibition of Child Marriage Act", "https://legislative.gov.in/sites/default/files/A2007-06.pdf", "Verified by Ministry of Law and Justice, Government of India")),
		q("Which UN convention protects children's rights globally?", []string{"UNCRC", "UNHRC", "UNICEF", "UNESCO"}, 0,
			"The UN Convention on the Rights of the Child (UNCRC) is the international treaty protecting children's rights.",
			ref("United Nations - Convention on the Rights of the Child", "https://www.ohchr.org/en/instruments-mechanisms/instruments/convention-rights-child", "Verified by United Nations Human Rights Office")),
		q("What percentage of seats are reserved for disadvantaged groups in private schools under RTE?", []string{"15%", "20%", "25%", "30%"}, 2,
			"25% of seats must be reserved for economically disadvantaged students under the Right to Education Act.",
			ref("RTE Act Section 12(1)(c)", "https://mhrd.gov.in/rte_rules", "Verified by Ministry of Education, Government of India")),
		q("Under which act is corporal punishment in schools prohibited?", []string{"RTE Act", "IPC", "Juvenile Justice Act", "POCSO Act"}, 0,
			"The Right to Education (RTE) Act prohibits physical punishment and mental harassment in schools.",
			ref("RTE Act Section 17 - Prohibition of Physical Punishment", "https://mhrd.gov.in/rte_rules", "Verified by Ministry of Education, Government of India")),
	}
}

func safetyScenarios() []domain.Entity {
	s := func(prompt string, options []string, correct int, explanation string, reference *domain.Reference) domain.Entity {
		return question(domain.KindScenario, prompt, options, correct, explanation, reference)
	}
	return []domain.Entity{
		s("If a stranger offers you candy and asks you to go with them, what should you do?",
			[]string{"Accept the candy and go with them", "Say no firmly and tell a trusted adult immediately", "Take the candy but don't go with them", "Talk to them to be polite"}, 1,
			"Never accept anything from strangers or go anywhere with them. Say 'NO' firmly and tell a trusted adult.",
			ref("National Crime Prevention Council - Child Safety Guidelines", "https://www.ncpc.org/resources/child-safety/", "Verified by National Crime Prevention Council")),
		s("If someone touches you inappropriately, what should you do?",
			[]string{"Keep it a secret", "Feel ashamed", "Tell a trusted adult immediately", "Ignore it"}, 2,
			"It's NOT your fault. Tell a trusted adult immediately. You have the right to say NO to any touch that makes you uncomfortable.",
			ref("POCSO Act Guidelines - Child Safety", "https://wcd.nic.in/acts/protection-children-sexual-offences-pocso-act-2012", "Verified by Ministry of Women and Child Development")),
		s("If you see your friend being bullied at school, what should you do?",
			[]string{"Join the bullies to avoid being bullied", "Ignore it as it's not your problem", "Film it on your phone", "Report it to a teacher or school authority"}, 3,
			"Bullying is wrong and should never be ignored. Report it to teachers or school authorities immediately.",
			ref("Anti-Bullying Guidelines for Schools", "https://www.cbse.gov.in/anti-bullying-guidelines", "Verified by Central Board of Secondary Education")),
		s("If a stranger online asks for your personal information or photos, what should you do?",
			[]string{"Share the information to be polite", "Tell a parent or trusted adult immediately", "Share fake information instead", "Keep chatting with them"}, 1,
			"Never share personal information or photos with strangers online.",
			ref("Cyber Safety Guidelines for Children", "https://cybercrime.gov.in/children-safety", "Verified by Ministry of Home Affairs, Cyber Safety Division")),
		s("If you feel unsafe while walking home from school, what should you do?",
			[]string{"Run as fast as you can", "Hide somewhere", "Go to the nearest safe zone (school, police station, trusted neighbor)", "Call a stranger for help"}, 2,
			"If you feel unsafe, go to the nearest safe zone like a school, police station, or a trusted neighbor's house.",
			ref("Child Safety Guidelines - Safe Routes to School", "https://morth.nic.in/safe-route-to-school", "Verified by Ministry of Road Transport and Highways")),
		s("If someone you met online wants to meet you in person, what should you do?",
			[]string{"Meet them in a public place", "Tell your parents and never meet them", "Go with a friend to meet them", "Keep it a secret and meet them alone"}, 1,
			"Never meet someone you met online in person. Online friends may not be who they claim to be.",
			ref("Online Safety Guidelines - Cyber Peace Foundation", "https://www.cyberpeace.org/online-safety", "Verified by Cyber Peace Foundation")),
		s("If there's a fire alarm at school, what should you do?",
			[]string{"Gather your belongings first", "Follow evacuation procedures calmly", "Hide in the bathroom", "Run as fast as you can"}, 1,
			"Always follow evacuation procedures calmly. Leave your belongings behind and follow your teacher's instructions.",
			ref("School Safety Manual - Fire Safety", "https://cbse.gov.in/safety-guidelines/fire-safety", "Verified by Central Board of Secondary Education")),
		s("If someone pressures you to try drugs or alcohol, what should you do?",
			[]string{"Try it just once", "Say no firmly and tell a trusted adult", "Keep it a secret", "Go along to be cool"}, 1,
			"Always say NO to drugs and alcohol. Don't give in to peer pressure.",
			ref("Drug Abuse Prevention Guidelines - NCERT", "https://ncert.nic.in/drug-abuse-prevention", "Verified by National Council of Educational Research and Training")),
	}
}

func quizChallenges() []domain.Entity {
	q := func(prompt string, options []string, correct int, explanation string) domain.Entity {
		return question(domain.KindQuiz, prompt, options, correct, explanation, nil)
	}
	return []domain.Entity{
		q("Every child has the right to...", []string{"Free education until age 14", "Work in factories", "Skip school", "Pay for primary education"}, 0,
			"Under RTE Act, every child has the right to free education until age 14."),
		q("What should you do if you witness bullying?", []string{"Join in", "Ignore it", "Tell a teacher or trusted adult", "Film it for social media"}, 2,
			"Always report bullying to a trusted adult who can help stop it."),
		q("What should you do if a stranger online asks for personal information?", []string{"Share it", "Tell parents/guardian", "Keep it secret", "Make up fake info"}, 1,
			"Always tell a trusted adult if someone online asks for personal information."),
		q("What is the Right to Education Act?", []string{"Law making education free and compulsory for ages 6-14", "Law about college education", "Rules for private schools only", "Guidelines for teachers"}, 0,
			"RTE Act makes education a fundamental right for children aged 6-14 years."),
		q("What is the legal working age in India?", []string{"12 years", "14 years", "16 years", "18 years"}, 1,
			"Children below 14 years cannot work in most occupations in India."),
		q("What should you do if you face cyberbullying?", []string{"Delete your account", "Bully them back", "Keep it to yourself", "Tell parents/teachers and save evidence"}, 3,
			"Always report cyberbullying and save evidence like screenshots."),
		q("What is the Juvenile Justice Act about?", []string{"School rules", "Care and protection of children", "Children's games", "Child education"}, 1,
			"The JJ Act provides for proper care, protection, and treatment of children."),
		q("What is the punishment for child labor under Indian law?", []string{"No punishment", "Fine only", "Imprisonment up to 1 year and/or fine", "Warning only"}, 2,
			"Employment of children below 14 years can result in imprisonment and fine."),
		q("What is 'Gillick Competence'?", []string{"Sports rule", "Child's capacity to make decisions", "School grade", "Medical term"}, 1,
			"Gillick Competence refers to a child's capacity to make their own decisions."),
		q("What is the role of Child Welfare Committee (CWC)?", []string{"Organize sports", "Manage schools", "Protect child rights and rehabilitation", "Provide meals"}, 2,
			"CWC is responsible for protecting child rights and rehabilitation of children in need."),
	}
}

func courtroomCases() []domain.Entity {
	c := func(title, hearing string, guilty bool, explanation, punishment string, links ...domain.Link) domain.Entity {
		correct := 1
		if guilty {
			correct = 0
		}
		return domain.Entity{
			Kind:         domain.KindCourtroom,
			Prompt:       title + ": " + hearing,
			Options:      []string{Guilty, NotGuilty},
			CorrectIndex: correct,
			Explanation:  explanation,
			Detail:       punishment,
			Links:        links,
		}
	}
	return []domain.Entity{
		c("The Playground Incident",
			"A 13-year-old student is accused of bullying younger students and forcibly taking their lunch money. The defendant claims it was due to hunger.",
			true, "While hunger is a serious issue, taking money by force is wrong. The right approach is to seek help from teachers or counselors.",
			"Counseling and community service",
			domain.Link{Text: "Anti-Bullying Guidelines", URL: "https://ncpcr.gov.in/"},
			domain.Link{Text: "Child Protection Laws", URL: "https://wcd.nic.in/acts/juvenile-justice-care-and-protection-children-act-2015"}),
		c("The Social Media Case",
			"The defendant shared embarrassing photos of a classmate without consent, causing significant emotional distress.",
			true, "Sharing photos without consent is cyberbullying and can cause serious emotional harm.",
			"Digital citizenship training and written apology",
			domain.Link{Text: "Cyber Safety Portal", URL: "https://cybercrime.gov.in/"}),
		c("The Homework Sharing Dilemma",
			"The defendant shared test answers with classmates via a group chat, claiming it was meant to help struggling students.",
			true, "Sharing test answers is a form of cheating that undermines learning and fairness in education.",
			"Academic integrity workshop and grade penalty",
			domain.Link{Text: "Academic Integrity Guidelines", URL: "https://www.cbse.gov.in/cbsenew/examination-circular.html"}),
		c("The False Accusation Case",
			"The defendant started a rumor accusing another student of stealing from the school store without any evidence.",
			true, "Spreading false rumors can severely impact someone's reputation and mental well-being.",
			"Public apology and anti-bullying workshop",
			domain.Link{Text: "School Safety Guidelines", URL: "https://www.education.gov.in/"}),
		c("The Misunderstanding",
			"The defendant is accused of pushing another student in the hallway, but evidence shows it was accidental during a crowded passing period.",
			false, "Accidents can happen in crowded spaces. The evidence shows no malicious intent.",
			"No punishment needed, but reminder about hallway safety",
			domain.Link{Text: "Student Behavior Guidelines", URL: "https://www.cbse.gov.in/cbsenew/discipline-committee.html"}),
	}
}

func jarRounds() []domain.Entity {
	r := func(right string, options []string, correct int, explanation string, reference *domain.Reference, links ...domain.Link) domain.Entity {
		return domain.Entity{
			Kind:         domain.KindRightsJar,
			Prompt:       "Which chit belongs to the " + right + "?",
			Options:      options,
			CorrectIndex: correct,
			Explanation:  explanation,
			Detail:       right,
			Reference:    reference,
			Links:        links,
		}
	}
	uncrc := func(article string) *domain.Reference {
		return ref("UNCRC "+article, "https://www.unicef.org/child-rights-convention/convention-text", "Verified by United Nations Convention on the Rights of the Child")
	}
	return []domain.Entity{
		r("Right to Education", []string{"Free education until age 14", "Right to vote", "Right to work", "Right to property", "Right to travel"}, 0,
			"The Right to Education is a fundamental right under Article 21A. It ensures free and compulsory education for all children between 6-14 years.",
			ref("RTE Act", "https://mhrd.gov.in/rte", "Verified by Ministry of Education, Government of India"),
			domain.Link{Text: "RTE Act Overview", URL: "https://mhrd.gov.in/rte"},
			domain.Link{Text: "UNICEF - Education Rights", URL: "https://www.unicef.org/india/what-we-do/education"}),
		r("Right to Protection", []string{"Right to own property", "Protection from exploitation and abuse", "Right to drive", "Right to vote", "Right to work"}, 1,
			"Every child has the right to be protected from violence, abuse, neglect, and exploitation.",
			ref("POCSO Act", "https://wcd.nic.in/act/protection-children-sexual-offences-pocso-act-2012", "Verified by Ministry of Women and Child Development"),
			domain.Link{Text: "Child Protection Laws", URL: "https://ncpcr.gov.in/index.php?lang=1"}),
		r("Right to Participation", []string{"Right to property", "Right to travel", "Voice opinions and be heard", "Right to work", "Right to drive"}, 2,
			"Children have the right to express their views freely in matters affecting them.",
			uncrc("Article 12"),
			domain.Link{Text: "Child Participation Guide", URL: "https://www.unicef.org/documents/child-participation-practice"}),
		r("Right to Development", []string{"Right to vote", "Right to work", "Right to travel", "Access to education and growth opportunities", "Right to property"}, 3,
			"Every child has the right to develop to their full potential, including access to education, play, leisure and information.",
			uncrc("Article 29"),
			domain.Link{Text: "Child Development Rights", URL: "https://www.ohchr.org/en/instruments-mechanisms/instruments/convention-rights-child"}),
		r("Right to Survival", []string{"Right to work", "Right to travel", "Right to property", "Right to vote", "Basic needs and healthcare"}, 4,
			"This fundamental right ensures access to basic needs like food, shelter, and healthcare.",
			uncrc("Article 6"),
			domain.Link{Text: "Child Health Rights", URL: "https://www.who.int/health-topics/child-health"}),
	}
}

func matchPairs() []domain.Pair {
	p := func(id, scenario, solution, explanation, url, authority string) domain.Pair {
		return domain.Pair{ID: id, Scenario: scenario, Solution: solution, Explanation: explanation, Reference: ref(authority, url, authority)}
	}
	return []domain.Pair{
		p("1", "A child is being forced to work in a factory instead of going to school", "Right to Education - Report to ChildLine (1098)",
			"Every child has the right to free education until age 14 and child labor is strictly prohibited by law.",
			"https://labour.gov.in/childlabour/child-labour-acts-and-rules", "Ministry of Labour and Employment, Government of India"),
		p("2", "A student is being bullied at school because of their background", "Right to Equality - Report to school authorities",
			"Every child has the right to study in a safe environment free from discrimination and bullying.",
			"https://ncpcr.gov.in/index.php", "National Commission for Protection of Child Rights"),
		p("3", "A child is not allowed to practice their religious beliefs", "Freedom of Religion - Seek legal protection",
			"Every person has the fundamental right to practice their religion freely without discrimination.",
			"https://legislative.gov.in/constitution-of-india", "Constitution of India"),
		p("4", "Children in a neighborhood don't have access to basic healthcare", "Right to Health - Contact local health authorities",
			"Every child has the fundamental right to access basic healthcare services.",
			"https://nhm.gov.in/", "Ministry of Health and Family Welfare"),
		p("5", "A child's private information is being shared without consent", "Right to Privacy - File complaint with cyber cell",
			"Children have the right to privacy and their personal information must be protected.",
			"https://cybercrime.gov.in/", "Ministry of Home Affairs, Cyber Crime Division"),
		p("6", "A child is denied admission to school due to their disability", "Right to Equal Education - Contact Education Department",
			"Every child has the right to education regardless of any disabilities.",
			"https://disabilityaffairs.gov.in/content/page/acts.php", "Department of Empowerment of Persons with Disabilities"),
	}
}
