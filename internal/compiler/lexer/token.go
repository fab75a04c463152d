package lexer

import "fmt"

// TokenType represents the type of a token in the Sylvre language
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR carries input the scanner could not turn into a valid token.
	// The parser reports it; the lexer itself never stops.
	TOKEN_ERROR

	// Keywords - Blocks
	TOKEN_FUNCTION  // function
	TOKEN_PARAMS    // PARAMS
	TOKEN_IF        // if
	TOKEN_ELSEIF    // elseif
	TOKEN_ELSE      // else
	TOKEN_LOOPWHILE // loopwhile
	TOKEN_LOOPFOR   // loopfor

	// Keywords - Statements
	TOKEN_CREATE    // create
	TOKEN_CALL      // call
	TOKEN_EXIT      // exit
	TOKEN_WITH      // with
	TOKEN_INCREMENT // increment
	TOKEN_DECREMENT // decrement

	// Keywords - Conditional operators
	TOKEN_AND    // AND
	TOKEN_OR     // OR
	TOKEN_NOT    // NOT
	TOKEN_GTHAN  // GTHAN
	TOKEN_GEQUAL // GEQUAL
	TOKEN_LTHAN  // LTHAN
	TOKEN_LEQUAL // LEQUAL
	TOKEN_EQUALS // EQUALS

	// Literals
	TOKEN_IDENTIFIER
	TOKEN_NUMBER
	TOKEN_DECIMAL
	TOKEN_STRING
	TOKEN_TRUE  // TRUE
	TOKEN_FALSE // FALSE

	// Arithmetic operators
	TOKEN_PLUS  // +
	TOKEN_MINUS // -
	TOKEN_STAR  // *
	TOKEN_SLASH // /

	// Assignment operators
	TOKEN_ASSIGN       // =
	TOKEN_PLUS_ASSIGN  // +=
	TOKEN_MINUS_ASSIGN // -=
	TOKEN_STAR_ASSIGN  // *=
	TOKEN_SLASH_ASSIGN // /=

	// Delimiters
	TOKEN_HASH     // # (statement terminator)
	TOKEN_LT       // < (block open)
	TOKEN_GT       // > (block close)
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_COMMA    // ,
	TOKEN_DOT      // .
)

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_EOF:          "EOF",
	TOKEN_ERROR:        "ERROR",
	TOKEN_FUNCTION:     "FUNCTION",
	TOKEN_PARAMS:       "PARAMS",
	TOKEN_IF:           "IF",
	TOKEN_ELSEIF:       "ELSEIF",
	TOKEN_ELSE:         "ELSE",
	TOKEN_LOOPWHILE:    "LOOPWHILE",
	TOKEN_LOOPFOR:      "LOOPFOR",
	TOKEN_CREATE:       "CREATE",
	TOKEN_CALL:         "CALL",
	TOKEN_EXIT:         "EXIT",
	TOKEN_WITH:         "WITH",
	TOKEN_INCREMENT:    "INCREMENT",
	TOKEN_DECREMENT:    "DECREMENT",
	TOKEN_AND:          "AND",
	TOKEN_OR:           "OR",
	TOKEN_NOT:          "NOT",
	TOKEN_GTHAN:        "GTHAN",
	TOKEN_GEQUAL:       "GEQUAL",
	TOKEN_LTHAN:        "LTHAN",
	TOKEN_LEQUAL:       "LEQUAL",
	TOKEN_EQUALS:       "EQUALS",
	TOKEN_IDENTIFIER:   "IDENTIFIER",
	TOKEN_NUMBER:       "NUMBER",
	TOKEN_DECIMAL:      "DECIMAL",
	TOKEN_STRING:       "STRING",
	TOKEN_TRUE:         "TRUE",
	TOKEN_FALSE:        "FALSE",
	TOKEN_PLUS:         "PLUS",
	TOKEN_MINUS:        "MINUS",
	TOKEN_STAR:         "STAR",
	TOKEN_SLASH:        "SLASH",
	TOKEN_ASSIGN:       "ASSIGN",
	TOKEN_PLUS_ASSIGN:  "PLUS_ASSIGN",
	TOKEN_MINUS_ASSIGN: "MINUS_ASSIGN",
	TOKEN_STAR_ASSIGN:  "STAR_ASSIGN",
	TOKEN_SLASH_ASSIGN: "SLASH_ASSIGN",
	TOKEN_HASH:         "HASH",
	TOKEN_LT:           "LT",
	TOKEN_GT:           "GT",
	TOKEN_LPAREN:       "LPAREN",
	TOKEN_RPAREN:       "RPAREN",
	TOKEN_LBRACKET:     "LBRACKET",
	TOKEN_RBRACKET:     "RBRACKET",
	TOKEN_COMMA:        "COMMA",
	TOKEN_DOT:          "DOT",
}

// String returns the string representation of a TokenType
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Token represents a single lexical token in Sylvre source code
type Token struct {
	Type    TokenType   // The type of the token
	Lexeme  string      // The raw text of the token
	Literal interface{} // The parsed value (for literals)
	Line    int         // Line number (1-indexed)
	Column  int         // Column number (1-indexed)
	Offset  int         // Byte offset of the first character in the source
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s '%s' (%v) at %d:%d",
			t.Type.String(), t.Lexeme, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s '%s' at %d:%d",
		t.Type.String(), t.Lexeme, t.Line, t.Column)
}

// Text returns the token as it appears in error messages. The end of input
// has no lexeme and is shown as <EOF>.
func (t Token) Text() string {
	if t.Type == TOKEN_EOF {
		return "<EOF>"
	}
	return t.Lexeme
}

// Keywords maps reserved words to their token types. Keywords are case-sensitive.
var Keywords = map[string]TokenType{
	// Blocks
	"function":  TOKEN_FUNCTION,
	"PARAMS":    TOKEN_PARAMS,
	"if":        TOKEN_IF,
	"elseif":    TOKEN_ELSEIF,
	"else":      TOKEN_ELSE,
	"loopwhile": TOKEN_LOOPWHILE,
	"loopfor":   TOKEN_LOOPFOR,

	// Statements
	"create":    TOKEN_CREATE,
	"call":      TOKEN_CALL,
	"exit":      TOKEN_EXIT,
	"with":      TOKEN_WITH,
	"increment": TOKEN_INCREMENT,
	"decrement": TOKEN_DECREMENT,

	// Conditional operators
	"AND":    TOKEN_AND,
	"OR":     TOKEN_OR,
	"NOT":    TOKEN_NOT,
	"GTHAN":  TOKEN_GTHAN,
	"GEQUAL": TOKEN_GEQUAL,
	"LTHAN":  TOKEN_LTHAN,
	"LEQUAL": TOKEN_LEQUAL,
	"EQUALS": TOKEN_EQUALS,

	// Boolean literals
	"TRUE":  TOKEN_TRUE,
	"FALSE": TOKEN_FALSE,
}

// LexError represents an error encountered during lexical analysis
type LexError struct {
	Message string // Error message
	Line    int    // Line number where error occurred
	Column  int    // Column number where error occurred
	Lexeme  string // The problematic text
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("Lexical error at %d:%d: %s (near '%s')",
		e.Line, e.Column, e.Message, e.Lexeme)
}
