package diag

import "fmt"

// Code identifies a diagnostic category. Ranges follow the pipeline stages:
// 1xxx lexer, 2xxx parser, 3xxx resolution, 4xxx evaluation, 5xxx render,
// 6xxx export.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax.
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynUnclosedDelimiter Code = 2004
	SynBadAttribute      Code = 2005

	// Resolution.
	ResSymbolNotFound         Code = 3001
	ResAmbiguousSymbol        Code = 3002
	ResSymbolIsPrivate        Code = 3003
	ResExternalSymbolNotFound Code = 3004
	ResDuplicateSymbol        Code = 3005
	ResExternalLoadFailed     Code = 3006

	// Evaluation.
	EvalTypeMismatch          Code = 4001
	EvalMissingArguments      Code = 4002
	EvalUnexpectedArgument    Code = 4003
	EvalDuplicateCallArgument Code = 4004
	EvalAssertionFailed       Code = 4005
	EvalMissingReturn         Code = 4006
	EvalNotCallable           Code = 4007
	EvalUninitializedProps    Code = 4008
	EvalDivisionByZero        Code = 4009
	EvalInvalidOperands       Code = 4010
	EvalErrorLimit            Code = 4011

	// Render.
	RenderMixedOutput   Code = 5001
	RenderUnsupported   Code = 5002
	RenderKernelFailure Code = 5003

	// Export.
	ExportIOFailure       Code = 6001
	ExportMissingExporter Code = 6002
	ExportNothingToExport Code = 6003
)

var codeNames = map[Code]string{
	UnknownCode:               "Unknown",
	LexUnknownChar:            "UnknownChar",
	LexUnterminatedString:     "UnterminatedString",
	LexBadNumber:              "BadNumber",
	SynUnexpectedToken:        "UnexpectedToken",
	SynExpectSemicolon:        "ExpectSemicolon",
	SynExpectIdentifier:       "ExpectIdentifier",
	SynUnclosedDelimiter:      "UnclosedDelimiter",
	SynBadAttribute:           "BadAttribute",
	ResSymbolNotFound:         "SymbolNotFound",
	ResAmbiguousSymbol:        "AmbiguousSymbol",
	ResSymbolIsPrivate:        "SymbolIsPrivate",
	ResExternalSymbolNotFound: "ExternalSymbolNotFound",
	ResDuplicateSymbol:        "DuplicateSymbol",
	ResExternalLoadFailed:     "ExternalLoadFailed",
	EvalTypeMismatch:          "TypeMismatch",
	EvalMissingArguments:      "MissingArguments",
	EvalUnexpectedArgument:    "UnexpectedArgument",
	EvalDuplicateCallArgument: "DuplicateCallArgument",
	EvalAssertionFailed:       "AssertionFailed",
	EvalMissingReturn:         "MissingReturn",
	EvalNotCallable:           "NotCallable",
	EvalUninitializedProps:    "UninitializedProperties",
	EvalDivisionByZero:        "DivisionByZero",
	EvalInvalidOperands:       "InvalidOperands",
	EvalErrorLimit:            "ErrorLimitExceeded",
	RenderMixedOutput:         "MixedOutput",
	RenderUnsupported:         "UnsupportedRender",
	RenderKernelFailure:       "KernelFailure",
	ExportIOFailure:           "ExportIO",
	ExportMissingExporter:     "MissingExporter",
	ExportNothingToExport:     "NothingToExport",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("C%04d", uint16(c))
}
