package lexer

// keywords maps every recognized Latin lexeme to its keyword token type.
// Any identifier absent from this table tokenizes as a plain IDENTIFIER.
var keywords = map[string]TokenType{
	"varia":     VARIA,
	"fixum":     FIXUM,
	"figendum":  FIGENDUM,
	"variandum": VARIANDUM,
	"functio":   FUNCTIO,
	"pactum":    PACTUM,
	"genus":     GENUS,
	"typus":     TYPUS,
	"ordo":      ORDO,
	"discretio": DISCRETIO,
	"importa":   IMPORTA,
	"ex":        EX,
	"de":        DE,
	"ab":        AB,
	"sub":       SUB,
	"implet":    IMPLET,
	"ut":        UT,

	"fit":    FIT,
	"fiet":   FIET,
	"fiunt":  FIUNT,
	"fient":  FIENT,
	"futura": FUTURA,
	"cursor": CURSOR_MOD,

	"si":       SI,
	"ergo":     ERGO,
	"sin":      SIN,
	"secus":    SECUS,
	"dum":      DUM,
	"pro":      PRO,
	"in":       IN,
	"elige":    ELIGE,
	"discerne": DISCERNE,
	"custodi":  CUSTODI,
	"adfirma":  ADFIRMA,
	"redde":    REDDE,
	"rumpe":    RUMPE,
	"perge":    PERGE,
	"iace":     IACE,
	"mori":     MORI,
	"tempta":   TEMPTA,
	"cape":     CAPE,
	"demum":    DEMUM,
	"fac":      FAC,
	"scribe":   SCRIBE,
	"vide":     VIDE,
	"mone":     MONE,

	"probandum":   PROBANDUM,
	"proba":       PROBA,
	"omitte":      OMITTE,
	"futurum":     FUTURUM,
	"praepara":    PRAEPARA,
	"praeparabit": PRAEPARABIT,
	"postpara":    POSTPARA,
	"postparabit": POSTPARABIT,
	"omnia":       OMNIA,

	"cura":     CURA,
	"arena":    ARENA,
	"page":     PAGE,
	"ad":       AD,
	"incipit":  INCIPIT,
	"incipiet": INCIPIET,

	"ego":        EGO,
	"verum":      VERUM,
	"falsum":     FALSUM,
	"nihil":      NIHIL,
	"novum":      NOVUM,
	"finge":      FINGE,
	"qua":        QUA,
	"est":        EST,
	"non":        NON,
	"nulla":      NULLA,
	"nonnulla":   NONNULLA,
	"nonnihil":   NONNIHIL,
	"negativum":  NEGATIVUM,
	"positivum":  POSITIVUM,
	"cede":       CEDE,
	"praefixum":  PRAEFIXUM,
	"scriptum":   SCRIPTUM,
	"lege":       LEGE,
	"sparge":     SPARGE,
	"ceteri":     CETERI,
	"vel":        VEL,
	"aut":        AUT,
	"et":         ET,

	"prima": PRIMA,
	"ultima": ULTIMA,
	"summa":  SUMMA,
	"ubi":    UBI,
	"usque":  USQUE,
	"ante":   ANTE,
	"per":    PER,
	"sed":    SED,

	"prae": PRAE,
}

// LookupKeyword returns the keyword token type for lexeme and whether it is
// a recognized keyword at all.
func LookupKeyword(lexeme string) (TokenType, bool) {
	t, ok := keywords[lexeme]
	return t, ok
}

// LexiconQuery is the read-only seam into the Latin morphology lexicon: a
// mapping from a nominative type name to whether it names a builtin type.
// The core never implements morphology itself; it only consumes this query.
type LexiconQuery interface {
	IsBuiltinType(name string) bool
}

// defaultLexicon is populated with the canonical builtin type names.
type defaultLexicon struct {
	types map[string]bool
}

var canonicalTypeNames = []string{
	"textus", "numerus", "fractus", "decimus", "magnus", "bivalens",
	"nihil", "vacuum", "numquam", "octeti", "objectum", "lista",
	"tabula", "copia", "promissum", "erratum", "cursor", "ignotum",
}

// DefaultLexicon returns the built-in lexicon populated with the canonical
// type names from the language reference. Callers with a richer declension
// table may supply their own LexiconQuery instead.
func DefaultLexicon() LexiconQuery {
	l := &defaultLexicon{types: make(map[string]bool, len(canonicalTypeNames))}
	for _, n := range canonicalTypeNames {
		l.types[n] = true
	}
	return l
}

func (l *defaultLexicon) IsBuiltinType(name string) bool {
	return l.types[name]
}
