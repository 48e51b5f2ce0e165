package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSuggestionsFromJSONArray(t *testing.T) {
	got := ParseSuggestions(`["Entendiendo los límites", "Multas y puntos"]`)
	assert.Equal(t, []string{"Entendiendo los límites", "Multas y puntos"}, got)
}

func TestParseSuggestionsStripsCodeFence(t *testing.T) {
	raw := "```json\n[\"Uno\", \"Dos\"]\n```"
	got := ParseSuggestions(raw)
	assert.Equal(t, []string{"Uno", "Dos"}, got)
}

func TestParseSuggestionsFallsBackToLines(t *testing.T) {
	raw := "- Entendiendo los límites\n2. Multas y puntos\n\n* Semáforos"
	got := ParseSuggestions(raw)
	assert.Equal(t, []string{"Entendiendo los límites", "Multas y puntos", "Semáforos"}, got)
}

func TestUnconfiguredClientReturnsSentinel(t *testing.T) {
	client = nil

	_, err := AnswerTrafficQuery(context.Background(), "¿qué hago?")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = SuggestRelevantArticles(context.Background(), "Exceso de velocidad")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCommonInfractionsReturnsCopy(t *testing.T) {
	a := CommonInfractions()
	assert.NotEmpty(t, a)
	a[0] = "mutado"
	assert.NotEqual(t, a[0], CommonInfractions()[0])
}
