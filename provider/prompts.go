package provider

import (
	"fmt"
	"strings"

	"kuchen/catalog"
	"kuchen/report"
)

const SystemInstruction = `You are Kuchendeutsch, a strict TestDaF speaking examiner.
Form follows function: answers are objective, critical and structured.

You have two jobs:
1. Write realistic TestDaF speaking tasks.
2. Grade recorded answers against the TestDaF criteria: structure, logic, grammar, vocabulary, fluency.

Write Markdown with bold headers, use tables for scores, keep chart data realistic and skip decoration.`

// GeneratePrompt asks for one task card as a JSON object.
func GeneratePrompt(task catalog.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a new TestDaF speaking task: %s.\n", task.Title)
	fmt.Fprintf(&sb, "Situation: %s\n", task.Description)
	fmt.Fprintf(&sb, "Interlocutor: %s. Register: %s (address them with %q).\n\n",
		task.Interlocutor, task.Register, task.AddressForm())
	sb.WriteString("Answer with a JSON object with these fields:\n")
	sb.WriteString("- germanTitle: short German title of the topic\n")
	sb.WriteString("- germanTaskText: the task in German, instructions only\n")
	sb.WriteString("- chineseInstructions: short Chinese translation of situation and requirement\n")
	sb.WriteString("- openingLineHint: a German first sentence (Redemittel) to start with\n")
	if task.RequiresChart() {
		sb.WriteString("- chartTitle: title of the chart\n")
		sb.WriteString(`- chartData: 4 to 5 objects with "name" (year or category) and "value" (number)` + "\n")
	}
	return sb.String()
}

// AnalyzePrompt asks for the markdown feedback report on the attached recording.
func AnalyzePrompt(task catalog.Task, content *GeneratedContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grade the attached recording for TestDaF speaking %s.\n", task.Title)
	if content != nil {
		fmt.Fprintf(&sb, "Topic: %s\nTask: %s\n", content.Title, content.TaskText)
	}
	fmt.Fprintf(&sb, "Situation: %s\n\n", task.Description)
	sb.WriteString("Report in three parts:\n")
	sb.WriteString("1. **Prozesslogik**: trace the argument flow as a chain joined with '->'.\n")
	sb.WriteString("2. **Bewertung**: a Markdown table with the columns Dimension, Score (0-5), " +
		"Deep Assessment (Chinese), Correction/Upgrade, one row per dimension: ")
	sb.WriteString(strings.Join(report.Dimensions, ", "))
	sb.WriteString(".\n")
	sb.WriteString("3. **Zusammenfassung**: a Wortschatz-Sammelbuch with 3 to 5 key terms used or missed, " +
		"and a Grammatik-Lernblock explaining one grammar point from the answer.\n\n")
	sb.WriteString("Mix Chinese and German as above. Tone: strict and academic.")
	return sb.String()
}
