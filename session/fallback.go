package session

import (
	"kuchen/catalog"
	"kuchen/provider"
)

// AnalysisErrorReport replaces the feedback report when analysis fails.
const AnalysisErrorReport = "## Analyse fehlgeschlagen\n\n" +
	"Die Aufnahme konnte nicht ausgewertet werden. Bitte prüfen Sie Ihr Mikrofon und versuchen Sie es erneut.\n\n" +
	"分析失败，请检查麦克风后重试。"

// FallbackContent is the card shown when generation fails. Chart tasks get two placeholder points.
func FallbackContent(task catalog.Task) *provider.GeneratedContent {
	c := &provider.GeneratedContent{
		Title:        "Fehler bei der Generierung",
		TaskText:     "Die Aufgabe konnte nicht erstellt werden. Bitte versuchen Sie es erneut.",
		Instructions: "生成失败，请重试。",
		OpeningHint:  "Entschuldigung, ...",
	}
	if task.RequiresChart() {
		c.ChartTitle = "Beispieldaten"
		c.Chart = []provider.ChartPoint{
			{Name: "A", Value: 10},
			{Name: "B", Value: 20},
		}
	}
	return c
}
