package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOffers никогда не возвращается как ошибка: его текст становится
	// единственной заметкой пустого плана.
	ErrNoOffers          = errors.New("no supplier produced any usable offers")
	ErrDuplicateSupplier = errors.New("duplicate supplier name")
	ErrSupplierCount     = errors.New("wrong number of suppliers")
)

// ColumnNotFoundError: в таблице поставщика нет заявленной колонки.
type ColumnNotFoundError struct {
	Supplier string
	File     string
	Column   string
	Role     string // product | spec | price
}

func (e *ColumnNotFoundError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("supplier %q, file %q: %s column %q not found", e.Supplier, e.File, e.Role, e.Column)
	}
	return fmt.Sprintf("supplier %q: %s column %q not found", e.Supplier, e.Role, e.Column)
}

// EmptyResultWarning: файл прочитан, но ни одной строки с ценой не осталось.
type EmptyResultWarning struct {
	Supplier string
	File     string
}

func (e *EmptyResultWarning) Error() string {
	if e.File != "" {
		return fmt.Sprintf("supplier %q, file %q: no usable priced rows", e.Supplier, e.File)
	}
	return fmt.Sprintf("supplier %q: no usable priced rows", e.Supplier)
}

// InputFormatError points at one malformed line of the procurement list.
type InputFormatError struct {
	Line   int // 1-based, строка-пример не считается
	Text   string
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("procurement list line %d (%q): %s; expected \"name,spec,quantity\"", e.Line, e.Text, e.Reason)
}

type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string { return "procurement list: " + e.Reason }

// Kind: короткий код ошибки для API/CLI.
func Kind(err error) string {
	var (
		colErr   *ColumnNotFoundError
		fmtErr   *InputFormatError
		emptyErr *EmptyInputError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &colErr):
		return "column_not_found"
	case errors.As(err, &fmtErr):
		return "input_format"
	case errors.As(err, &emptyErr):
		return "empty_input"
	case errors.Is(err, ErrDuplicateSupplier), errors.Is(err, ErrSupplierCount):
		return "suppliers"
	default:
		return "internal"
	}
}
