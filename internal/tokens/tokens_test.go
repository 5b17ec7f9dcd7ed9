package tokens

import "testing"

func TestKeywordTableBijection(t *testing.T) {
	expected := map[string]TOKEN{
		"ако":      IF_TOKEN,
		"иначе":    ELSE_TOKEN,
		"док":      WHILE_TOKEN,
		"за":       FOR_TOKEN,
		"ради":     DO_TOKEN,
		"прекини":  BREAK_TOKEN,
		"врати":    RETURN_TOKEN,
		"екстерно": EXTERNAL_TOKEN,
		"тачно":    TRUE_TOKEN,
		"нетачно":  FALSE_TOKEN,
	}

	if len(KeywordTable) != len(expected) {
		t.Fatalf("keyword table has %d entries, want %d", len(KeywordTable), len(expected))
	}

	for word, kind := range expected {
		got, ok := KeywordToken(word)
		if !ok || got != kind {
			t.Errorf("KeywordToken(%q) = (%v, %t), want (%v, true)", word, got, ok, kind)
		}
		if !IsKeyword(word) {
			t.Errorf("IsKeyword(%q) = false, want true", word)
		}

		back, ok := KeywordString(kind)
		if !ok || back != word {
			t.Errorf("KeywordString(%v) = (%q, %t), want (%q, true)", kind, back, ok, word)
		}
	}
}

func TestKeywordLookupIsExact(t *testing.T) {
	// Near-misses must not resolve: prefixes, suffixed forms, Latin
	// homoglyph spellings
	for _, s := range []string{"", "ак", "ако1", "_ако", "Ако", "ako", "akо", "врат", "vrati"} {
		if IsKeyword(s) {
			t.Errorf("IsKeyword(%q) = true, want false", s)
		}
		if _, ok := KeywordToken(s); ok {
			t.Errorf("KeywordToken(%q) resolved, want miss", s)
		}
	}
}

func TestIsOperator(t *testing.T) {
	operators := []TOKEN{
		PLUS_TOKEN, MINUS_TOKEN, STAR_TOKEN, SLASH_TOKEN, PERCENT_TOKEN,
		DOUBLE_EQUALS_TOKEN, NOT_EQUALS_TOKEN,
		LESS_TOKEN, LESS_EQUALS_TOKEN, GREATER_TOKEN, GREATER_EQUALS_TOKEN,
		AND_TOKEN, DOUBLE_AND_TOKEN, OR_TOKEN, DOUBLE_OR_TOKEN,
		NOT_TOKEN, CARET_TOKEN, TILDE_TOKEN,
	}
	for _, op := range operators {
		if !IsOperator(op) {
			t.Errorf("IsOperator(%v) = false, want true", op)
		}
	}

	for _, kind := range []TOKEN{EOF_TOKEN, IDENTIFIER_TOKEN, NUMBER_TOKEN,
		SEMICOLON_TOKEN, COLON_TOKEN, EQUALS_TOKEN, IF_TOKEN, OPEN_PAREN} {
		if IsOperator(kind) {
			t.Errorf("IsOperator(%v) = true, want false", kind)
		}
	}
}
