package analyzer

import (
	"strings"
	"unicode/utf8"
)

// MinTokenLength is the shortest token that is ever counted.
const MinTokenLength = 2

var pronouns = []string{
	"I", "you", "he", "she", "it", "we", "they",
	"mine", "yours", "his", "hers", "its", "ours", "theirs",
	"myself", "yourself", "himself", "herself", "itself", "ourselves", "yourselves", "themselves",
	"this", "that", "these", "those",
	"who", "whom", "whose", "which", "what",
	"all", "another", "any", "anybody", "anyone", "anything", "each", "everybody", "everyone", "everything",
	"nobody", "none", "no one", "nothing", "one", "other", "somebody", "someone", "something", "several",
	"some", "few", "many", "both", "more", "most", "such",
}

var functionWords = []string{
	"a", "an", "the",
	"aboard", "about", "above", "across", "after", "against", "along", "amid", "among", "around", "as",
	"at", "before", "behind", "below", "beneath", "beside", "between", "beyond", "by", "concerning",
	"considering", "despite", "down", "during", "except", "for", "from", "in", "inside", "into", "like",
	"near", "of", "off", "on", "onto", "out", "outside", "over", "past", "regarding", "round", "since",
	"through", "throughout", "to", "toward", "under", "underneath", "until", "unto", "up", "upon", "with",
	"within", "without",
	"and", "but", "or", "nor", "so", "yet",
	"be", "have", "do", "will", "shall", "can", "could", "may", "might", "must", "should", "would",
	"me", "him", "her", "us", "them",
}

// commonShortWords are frequent words in post titles that carry no topic.
var commonShortWords = []string{
	"to", "is", "my", "how", "was", "up", "are", "have", "just", "if", "has", "when", "had", "an",
}

// exclusion is the combined vocabulary, lowercased once at startup.
var exclusion = buildExclusion(pronouns, functionWords, commonShortWords)

func buildExclusion(lists ...[]string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			m[strings.ToLower(w)] = struct{}{}
		}
	}
	return m
}

// StopwordFilter excludes short tokens and the fixed English exclusion vocabulary.
type StopwordFilter struct {
	words map[string]struct{}
}

// NewStopwordFilter returns a filter over the process-wide exclusion vocabulary.
func NewStopwordFilter() *StopwordFilter {
	return &StopwordFilter{words: exclusion}
}

// IsExcluded reports whether token must not be counted.
func (f *StopwordFilter) IsExcluded(token string) bool {
	if utf8.RuneCountInString(token) < MinTokenLength {
		return true
	}
	_, stop := f.words[token]
	return stop
}
