package importer

import (
	"fmt"
)

// Service dispatches raw inputs to the parser registered for each bank.
type Service struct {
	parsers map[Bank]Parser
}

// NewService builds a service over an explicit parser registry.
// Registration happens in main so this package stays import-cycle free.
func NewService(parsers map[Bank]Parser) *Service {
	return &Service{parsers: parsers}
}

// Import parses a single file with the bank's registered parser.
func (s *Service) Import(bank Bank, in Input) (*ParseResult, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return parser.Parse(in)
}

// File is one upload in a batch.
type File struct {
	Bank  Bank
	Name  string
	Input Input
}

// FileSummary reports the per-file outcome of a batch import: either the
// parse result or the error that failed that file.
type FileSummary struct {
	Filename string
	Bank     Bank
	Result   *ParseResult
	Err      error
}

// ImportBatch parses every file, isolating failures per file: a bad file
// never aborts the rest of the batch. Output order follows input order.
func (s *Service) ImportBatch(files []File) []FileSummary {
	summaries := make([]FileSummary, 0, len(files))

	for _, f := range files {
		result, err := s.Import(f.Bank, f.Input)

		summaries = append(summaries, FileSummary{
			Filename: f.Name,
			Bank:     f.Bank,
			Result:   result,
			Err:      err,
		})
	}

	return summaries
}
