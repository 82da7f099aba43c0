package crossref

import "sort"

// Mapping is a read-only identifier -> chapter title table
type Mapping struct {
	titles map[string]string
}

// NewMapping copies entries into an immutable Mapping
func NewMapping(entries map[string]string) Mapping {
	titles := make(map[string]string, len(entries))
	for id, title := range entries {
		titles[id] = title
	}
	return Mapping{titles: titles}
}

// Lookup returns the title for id
func (m Mapping) Lookup(id string) (string, bool) {
	title, ok := m.titles[id]
	return title, ok
}

// Len returns the number of entries
func (m Mapping) Len() int {
	return len(m.titles)
}

// Keys returns the identifiers in sorted order
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m.titles))
	for id := range m.titles {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

// chapters is the book's chapter table: slug -> "N Title"
var chapters = NewMapping(map[string]string{
	"intro-to-r":                "1 Getting Started with R",
	"data-structures":           "2 Data Structures in R",
	"data-files":                "3 Working with Data Files in R",
	"exploratory":               "4 Intro to Exploratory Data Analysis",
	"transformations-summaries": "5 Data Transformations and Summaries",
	"cs-preprocessing":          "6 Case Study: Pre-Processing Data",
	"merging-reshaping":         "7 Merging and Reshaping Data",
	"ggplot2":                   "8 Visualization with ggplot2",
	"cs-eda":                    "9 Case Study: Exploratory Data Analysis",
	"probability-distributions": "10 Probability Distributions in R",
	"hypothesis-testing":        "11 Hypothesis Testing",
	"cs-testing":                "12 Case Study: Hypothesis Testing",
	"linear-regression":         "13 Linear Regression",
	"logistic-regression":       "14 Logistic Regression",
	"model-selection":           "15 Model Selection",
	"cs-regression":             "16 Case Study: Regression",
	"control-flows":             "17 Logic and Loops",
	"functions":                 "18 Functions",
	"cs-simulation":             "19 Case Study: Designing a Simulation Study",
	"efficiency":                "20 Writing Efficient Code",
	"expanding-skills":          "21 Expanding your R Skills",
	"quarto":                    "22 Writing Reports in Quarto",
})

// Chapters returns the built-in chapter mapping
func Chapters() Mapping {
	return chapters
}
