package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/store"
)

const (
	// ReasonHeader carries a machine readable reason on some errors.
	ReasonHeader = "X-Error-Reason"

	ReasonNoBudget = "NO_BUDGET_FOR_CATEGORY"

	msgNoBudget            = "No budget found for this category. Please create a budget first."
	msgNoBudgetForCategory = "No budget found for this category"
)

// fieldErrors collects validation failures in the order they were found.
type fieldErrors []string

func (f *fieldErrors) add(field, msg string) {
	*f = append(*f, field+": "+msg)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(f, "; ")))
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func noBudgetError(msg string) error {
	err := connect.NewError(connect.CodeFailedPrecondition, errors.New(msg))
	err.Meta().Set(ReasonHeader, ReasonNoBudget)
	return err
}

// mapStoreError converts store sentinels to connect codes. Anything else is
// an internal failure of op.
func mapStoreError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	}
	log.Printf("[BudgetService] %s failed: %v", op, err)
	return auth.WrapStoreError(op, err)
}

// mapAssistantError converts text-generation failures to connect codes.
func mapAssistantError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, analytics.ErrInvalidOptions) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var aerr *assistant.Error
	if !errors.As(err, &aerr) {
		return mapStoreError("assemble assistant context", err)
	}

	code := connect.CodeInternal
	switch {
	case aerr.IsConfiguration():
		code = connect.CodeFailedPrecondition
	case aerr.Code == assistant.ErrRateLimited:
		code = connect.CodeResourceExhausted
	case aerr.Code == assistant.ErrTimeout, aerr.Code == assistant.ErrUnavailable:
		code = connect.CodeUnavailable
	case aerr.Code == assistant.ErrBadRequest:
		code = connect.CodeInvalidArgument
	case aerr.Code == assistant.ErrCanceled:
		code = connect.CodeCanceled
	}
	cerr := connect.NewError(code, errors.New(aerr.Message))
	cerr.Meta().Set(ReasonHeader, string(aerr.Code))
	return cerr
}
