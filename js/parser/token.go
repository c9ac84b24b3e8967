package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Channel separates tokens the grammar matches from tokens kept only for
// line-terminator checks and comment collection.
type Channel int

const (
	ChannelDefault Channel = iota
	ChannelHidden
	ChannelError
)

func (c Channel) String() string {
	switch c {
	case ChannelDefault:
		return "default"
	case ChannelHidden:
		return "hidden"
	case ChannelError:
		return "error"
	}
	return "unknown"
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenUnexpectedCharacter

	// Hidden channel
	TokenHashBangLine
	TokenMultiLineComment
	TokenSingleLineComment
	TokenHTMLComment
	TokenCDataComment
	TokenWhiteSpaces
	TokenLineTerminator

	// Punctuation
	TokenOpenBracket
	TokenCloseBracket
	TokenOpenParen
	TokenCloseParen
	TokenOpenBrace
	TokenCloseBrace
	TokenSemiColon
	TokenComma
	TokenAssign
	TokenQuestionMark
	TokenQuestionMarkDot
	TokenColon
	TokenEllipsis
	TokenDot
	TokenPlusPlus
	TokenMinusMinus
	TokenPlus
	TokenMinus
	TokenBitNot
	TokenNot
	TokenMultiply
	TokenDivide
	TokenModulus
	TokenPower
	TokenNullCoalesce
	TokenHashtag
	TokenRightShiftArithmetic
	TokenLeftShiftArithmetic
	TokenRightShiftLogical
	TokenLessThan
	TokenMoreThan
	TokenLessThanEquals
	TokenGreaterThanEquals
	TokenEquals
	TokenNotEquals
	TokenIdentityEquals
	TokenIdentityNotEquals
	TokenBitAnd
	TokenBitXOr
	TokenBitOr
	TokenAnd
	TokenOr
	TokenMultiplyAssign
	TokenDivideAssign
	TokenModulusAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenLeftShiftArithmeticAssign
	TokenRightShiftArithmeticAssign
	TokenRightShiftLogicalAssign
	TokenBitAndAssign
	TokenBitXorAssign
	TokenBitOrAssign
	TokenPowerAssign
	TokenArrow

	// Literals
	TokenNullLiteral
	TokenBooleanLiteral
	TokenDecimalLiteral
	TokenHexIntegerLiteral
	TokenOctalIntegerLiteral
	TokenOctalIntegerLiteral2
	TokenBinaryIntegerLiteral
	TokenBigHexIntegerLiteral
	TokenBigOctalIntegerLiteral
	TokenBigBinaryIntegerLiteral
	TokenBigDecimalIntegerLiteral
	TokenStringLiteral
	TokenRegularExpressionLiteral
	TokenURL

	// Template literals
	TokenBackTick
	TokenTemplateStringAtom
	TokenTemplateStringStartExpression
	TokenTemplateCloseBrace

	// Keywords
	TokenBreak
	TokenDo
	TokenInstanceof
	TokenTypeof
	TokenCase
	TokenElse
	TokenNew
	TokenVar
	TokenCatch
	TokenFinally
	TokenReturn
	TokenVoid
	TokenContinue
	TokenFor
	TokenSwitch
	TokenWhile
	TokenDebugger
	TokenFunction
	TokenThis
	TokenWith
	TokenDefault
	TokenIf
	TokenThrow
	TokenDelete
	TokenIn
	TokenTry
	TokenClass
	TokenEnum
	TokenExtends
	TokenSuper
	TokenConst
	TokenExport
	TokenImport
	TokenYield

	// Reserved only in strict mode
	TokenLet
	TokenImplements
	TokenPrivate
	TokenPublic
	TokenInterface
	TokenPackage
	TokenProtected
	TokenStatic

	TokenIdentifier
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:                           "EOF",
	TokenUnexpectedCharacter:           "UnexpectedCharacter",
	TokenHashBangLine:                  "HashBangLine",
	TokenMultiLineComment:              "MultiLineComment",
	TokenSingleLineComment:             "SingleLineComment",
	TokenHTMLComment:                   "HtmlComment",
	TokenCDataComment:                  "CDataComment",
	TokenWhiteSpaces:                   "WhiteSpaces",
	TokenLineTerminator:                "LineTerminator",
	TokenOpenBracket:                   "[",
	TokenCloseBracket:                  "]",
	TokenOpenParen:                     "(",
	TokenCloseParen:                    ")",
	TokenOpenBrace:                     "{",
	TokenCloseBrace:                    "}",
	TokenSemiColon:                     ";",
	TokenComma:                         ",",
	TokenAssign:                        "=",
	TokenQuestionMark:                  "?",
	TokenQuestionMarkDot:               "?.",
	TokenColon:                         ":",
	TokenEllipsis:                      "...",
	TokenDot:                           ".",
	TokenPlusPlus:                      "++",
	TokenMinusMinus:                    "--",
	TokenPlus:                          "+",
	TokenMinus:                         "-",
	TokenBitNot:                        "~",
	TokenNot:                           "!",
	TokenMultiply:                      "*",
	TokenDivide:                        "/",
	TokenModulus:                       "%",
	TokenPower:                         "**",
	TokenNullCoalesce:                  "??",
	TokenHashtag:                       "#",
	TokenRightShiftArithmetic:          ">>",
	TokenLeftShiftArithmetic:           "<<",
	TokenRightShiftLogical:             ">>>",
	TokenLessThan:                      "<",
	TokenMoreThan:                      ">",
	TokenLessThanEquals:                "<=",
	TokenGreaterThanEquals:             ">=",
	TokenEquals:                        "==",
	TokenNotEquals:                     "!=",
	TokenIdentityEquals:                "===",
	TokenIdentityNotEquals:             "!==",
	TokenBitAnd:                        "&",
	TokenBitXOr:                        "^",
	TokenBitOr:                         "|",
	TokenAnd:                           "&&",
	TokenOr:                            "||",
	TokenMultiplyAssign:                "*=",
	TokenDivideAssign:                  "/=",
	TokenModulusAssign:                 "%=",
	TokenPlusAssign:                    "+=",
	TokenMinusAssign:                   "-=",
	TokenLeftShiftArithmeticAssign:     "<<=",
	TokenRightShiftArithmeticAssign:    ">>=",
	TokenRightShiftLogicalAssign:       ">>>=",
	TokenBitAndAssign:                  "&=",
	TokenBitXorAssign:                  "^=",
	TokenBitOrAssign:                   "|=",
	TokenPowerAssign:                   "**=",
	TokenArrow:                         "=>",
	TokenNullLiteral:                   "null",
	TokenBooleanLiteral:                "BooleanLiteral",
	TokenDecimalLiteral:                "DecimalLiteral",
	TokenHexIntegerLiteral:             "HexIntegerLiteral",
	TokenOctalIntegerLiteral:           "OctalIntegerLiteral",
	TokenOctalIntegerLiteral2:          "OctalIntegerLiteral2",
	TokenBinaryIntegerLiteral:          "BinaryIntegerLiteral",
	TokenBigHexIntegerLiteral:          "BigHexIntegerLiteral",
	TokenBigOctalIntegerLiteral:        "BigOctalIntegerLiteral",
	TokenBigBinaryIntegerLiteral:       "BigBinaryIntegerLiteral",
	TokenBigDecimalIntegerLiteral:      "BigDecimalIntegerLiteral",
	TokenStringLiteral:                 "StringLiteral",
	TokenRegularExpressionLiteral:      "RegularExpressionLiteral",
	TokenURL:                           "Url",
	TokenBackTick:                      "`",
	TokenTemplateStringAtom:            "TemplateStringAtom",
	TokenTemplateStringStartExpression: "${",
	TokenTemplateCloseBrace:            "TemplateCloseBrace",
	TokenBreak:                         "break",
	TokenDo:                            "do",
	TokenInstanceof:                    "instanceof",
	TokenTypeof:                        "typeof",
	TokenCase:                          "case",
	TokenElse:                          "else",
	TokenNew:                           "new",
	TokenVar:                           "var",
	TokenCatch:                         "catch",
	TokenFinally:                       "finally",
	TokenReturn:                        "return",
	TokenVoid:                          "void",
	TokenContinue:                      "continue",
	TokenFor:                           "for",
	TokenSwitch:                        "switch",
	TokenWhile:                         "while",
	TokenDebugger:                      "debugger",
	TokenFunction:                      "function",
	TokenThis:                          "this",
	TokenWith:                          "with",
	TokenDefault:                       "default",
	TokenIf:                            "if",
	TokenThrow:                         "throw",
	TokenDelete:                        "delete",
	TokenIn:                            "in",
	TokenTry:                           "try",
	TokenClass:                         "class",
	TokenEnum:                          "enum",
	TokenExtends:                       "extends",
	TokenSuper:                         "super",
	TokenConst:                         "const",
	TokenExport:                        "export",
	TokenImport:                        "import",
	TokenYield:                         "yield",
	TokenLet:                           "let",
	TokenImplements:                    "implements",
	TokenPrivate:                       "private",
	TokenPublic:                        "public",
	TokenInterface:                     "interface",
	TokenPackage:                       "package",
	TokenProtected:                     "protected",
	TokenStatic:                        "static",
	TokenIdentifier:                    "Identifier",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Channel Channel
	// Literal is the raw source text of the token.
	Literal string
	// Value is the cooked text for string literals, template atoms and
	// identifiers written with unicode escapes. Empty otherwise.
	Value string
}

// Text returns the cooked value when there is one and the raw literal
// otherwise.
func (t Token) Text() string {
	if t.Value != "" {
		return t.Value
	}
	return t.Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Literal, t.Span.Start)
}

var keywords = map[string]TokenKind{
	"break":      TokenBreak,
	"do":         TokenDo,
	"instanceof": TokenInstanceof,
	"typeof":     TokenTypeof,
	"case":       TokenCase,
	"else":       TokenElse,
	"new":        TokenNew,
	"var":        TokenVar,
	"catch":      TokenCatch,
	"finally":    TokenFinally,
	"return":     TokenReturn,
	"void":       TokenVoid,
	"continue":   TokenContinue,
	"for":        TokenFor,
	"switch":     TokenSwitch,
	"while":      TokenWhile,
	"debugger":   TokenDebugger,
	"function":   TokenFunction,
	"this":       TokenThis,
	"with":       TokenWith,
	"default":    TokenDefault,
	"if":         TokenIf,
	"throw":      TokenThrow,
	"delete":     TokenDelete,
	"in":         TokenIn,
	"try":        TokenTry,
	"class":      TokenClass,
	"enum":       TokenEnum,
	"extends":    TokenExtends,
	"super":      TokenSuper,
	"const":      TokenConst,
	"export":     TokenExport,
	"import":     TokenImport,
	"yield":      TokenYield,
	"null":       TokenNullLiteral,
	"true":       TokenBooleanLiteral,
	"false":      TokenBooleanLiteral,
}

var strictKeywords = map[string]TokenKind{
	"let":        TokenLet,
	"implements": TokenImplements,
	"private":    TokenPrivate,
	"public":     TokenPublic,
	"interface":  TokenInterface,
	"package":    TokenPackage,
	"protected":  TokenProtected,
	"static":     TokenStatic,
}

// LookupKeyword classifies an identifier-shaped lexeme. Words in the
// strict-mode set are keywords only when strict is true.
func LookupKeyword(ident string, strict bool) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	if strict {
		if kind, ok := strictKeywords[ident]; ok {
			return kind
		}
	}
	return TokenIdentifier
}

// IsKeyword reports whether kind is a reserved word, including the literal
// keywords and the strict-mode set.
func (k TokenKind) IsKeyword() bool {
	return (k >= TokenBreak && k <= TokenStatic) || k == TokenNullLiteral || k == TokenBooleanLiteral
}

// IsStrictReserved reports whether kind is one of the words reserved only in
// strict mode.
func (k TokenKind) IsStrictReserved() bool {
	return k >= TokenLet && k <= TokenStatic
}

func (k TokenKind) IsAssignOp() bool {
	return k == TokenAssign || (k >= TokenMultiplyAssign && k <= TokenPowerAssign)
}

func (k TokenKind) IsNumeric() bool {
	return k >= TokenDecimalLiteral && k <= TokenBinaryIntegerLiteral
}

func (k TokenKind) IsBigInt() bool {
	return k >= TokenBigHexIntegerLiteral && k <= TokenBigDecimalIntegerLiteral
}

func (k TokenKind) IsComment() bool {
	switch k {
	case TokenMultiLineComment, TokenSingleLineComment, TokenHTMLComment, TokenCDataComment:
		return true
	}
	return false
}
