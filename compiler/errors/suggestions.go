package errors

import "strings"

// SuggestMissingNullability builds the fix suggestion for a struct/genus
// field that omitted its trailing `!`/`?` nullability marker.
func SuggestMissingNullability(fieldName string) FixSuggestion {
	return FixSuggestion{
		Message:     "add ! (non-null) or ? (nullable) after the field type",
		Replacement: fieldName + "!",
	}
}

// SuggestVerbModifierConflict explains why futura/cursor cannot combine with
// a non-arrow return verb.
func SuggestVerbModifierConflict(verb, modifier string) FixSuggestion {
	return FixSuggestion{
		Message: "remove '" + modifier + "' or use the '->' return form instead of '" + verb + "'",
	}
}

// SuggestRestSyntax points a JS/Python-style rest pattern at the Latin
// equivalent.
func SuggestRestSyntax(found string) FixSuggestion {
	name := strings.TrimLeft(strings.TrimPrefix(found, "..."), "*")
	return FixSuggestion{
		Message:     "use 'ceteri NAME' for rest/spread instead of " + found,
		Replacement: "ceteri " + name,
	}
}
