// Package report reads the score table out of a markdown analysis report for display.
// The report itself stays opaque text; a report without a recognisable table yields no scores.
package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MaxScore is the top of the 0–5 scale every dimension is scored on.
const MaxScore = 5

// Dimensions are the four scoring rows the examiner is asked for, in order.
var Dimensions = []string{
	"Structure & Logic",
	"Grammar & Syntax",
	"Vocabulary Diversity",
	"Exam Strategy",
}

type Score struct {
	Dimension  string
	Value      float64
	Assessment string
	Correction string
}

var scorePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

var parser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

// Scores returns the rows of the first table whose first column names a scoring dimension.
func Scores(markdown string) []Score {
	src := []byte(markdown)
	doc := parser.Parse(text.NewReader(src))

	var scores []Score
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || scores != nil {
			return ast.WalkSkipChildren, nil
		}
		table, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		if rows := tableScores(table, src); len(rows) > 0 {
			scores = rows
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	return scores
}

func tableScores(table *east.Table, src []byte) []Score {
	var rows []Score
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*east.TableRow); !ok {
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(plainText(cell, src)))
		}
		if len(cells) < 2 || !isDimension(cells[0]) {
			continue
		}
		m := scorePattern.FindString(cells[1])
		if m == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
		if err != nil {
			continue
		}
		s := Score{Dimension: cells[0], Value: min(v, MaxScore)}
		if len(cells) > 2 {
			s.Assessment = cells[2]
		}
		if len(cells) > 3 {
			s.Correction = cells[3]
		}
		rows = append(rows, s)
	}
	return rows
}

func isDimension(cell string) bool {
	cell = strings.ToLower(cell)
	for _, d := range Dimensions {
		word, _, _ := strings.Cut(strings.ToLower(d), " ")
		if strings.Contains(cell, word) {
			return true
		}
	}
	return false
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// Average is the mean score, or 0 when there are no rows.
func Average(scores []Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Value
	}
	return sum / float64(len(scores))
}
