package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("club", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("already a member of this club"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the club owner can delete the club"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("authentication required"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("photo", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Forbidden does NOT match ErrUnauthenticated",
			err:       Forbidden("this club is private"),
			target:    ErrUnauthenticated,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound formats resource and id",
			err:         NotFound("club", "xyz"),
			wantMessage: "club not found with id xyz",
		},
		{
			name:        "ValidationFailed passes the message through",
			err:         ValidationFailed("comment", "comment too long (max 500 characters)"),
			wantMessage: "comment too long (max 500 characters)",
		},
		{
			name:        "Conflict passes the message through",
			err:         Conflict("this photo is already posted to this club"),
			wantMessage: "this photo is already posted to this club",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestValidationFailedKeepsField(t *testing.T) {
	err := ValidationFailed("name", "club name must be 100 characters or less")
	if err.Field != "name" {
		t.Errorf("Field = %q, want %q", err.Field, "name")
	}
}

func TestWrappedAppErrorStillMatches(t *testing.T) {
	// Services wrap repository errors with fmt.Errorf("...: %w", err);
	// errors.Is must still find the sentinel through the chain.
	inner := NotFound("club", "abc")
	wrapped := errors.Join(errors.New("fetching club"), inner)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped AppError no longer matches ErrNotFound")
	}
}
