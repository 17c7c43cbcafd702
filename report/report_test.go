package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `## Prozesslogik
Einleitung -> These -> Beispiel -> Schluss

| Dimension | Score (0-5) | Deep Assessment | Correction/Upgrade |
|---|---|---|---|
| **Structure & Logic** | 4 | 清晰 | Zuerst ... dann |
| Grammar & Syntax | 3/5 | 动词位置 | weil ich ... habe |
| Vocabulary Diversity | 2,5 | 重复 | außerdem |
| Exam Strategy | 5 | 完整 | – |

## Zusammenfassung
| Wort | Bedeutung |
|---|---|
| die Grafik | chart |
`

func TestScores(t *testing.T) {
	scores := Scores(sample)
	require.Len(t, scores, 4)

	assert.Equal(t, "Structure & Logic", scores[0].Dimension)
	assert.Equal(t, 4.0, scores[0].Value)
	assert.Equal(t, "Zuerst ... dann", scores[0].Correction)
	assert.Equal(t, 3.0, scores[1].Value)
	assert.Equal(t, 2.5, scores[2].Value)
	assert.Equal(t, "重复", scores[2].Assessment)
	assert.Equal(t, 5.0, scores[3].Value)
	assert.InDelta(t, 3.625, Average(scores), 1e-9)
}

func TestScoresNoTable(t *testing.T) {
	assert.Empty(t, Scores("Error analyzing audio. Please try again."))
	assert.Empty(t, Scores("| a | b |\n|---|---|\n| c | d |\n"))
	assert.Zero(t, Average(nil))
}

func TestScoresClampsToMax(t *testing.T) {
	scores := Scores("| Dimension | Score |\n|---|---|\n| Exam Strategy | 9 |\n")
	require.Len(t, scores, 1)
	assert.Equal(t, float64(MaxScore), scores[0].Value)
}
