package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	identityDomain "github.com/allisson/loans/internal/identity/domain"
	"github.com/allisson/loans/internal/identity/http/dto"
	identityUseCase "github.com/allisson/loans/internal/identity/usecase"
	customValidation "github.com/allisson/loans/internal/validation"
)

// RunCreateIdentity registers an identity after applying the same validation as the HTTP API.
// Fails with a conflict when the email or national ID is already registered.
func RunCreateIdentity(
	ctx context.Context,
	useCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name, nationalID, email, role string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	req := dto.IdentityRequest{Name: name, NationalID: nationalID, Email: email, Role: role}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid identity: %w", customValidation.WrapValidationError(err))
	}

	identity, err := useCase.Create(ctx, req.ToCreateInput())
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	logger.Info("identity created", slog.String("identity_id", identity.ID.String()))

	if format == "json" {
		return writeJSON(writer, dto.MapIdentityToResponse(identity))
	}

	_, _ = fmt.Fprintln(writer, "Identity created successfully!")
	_, _ = fmt.Fprintf(writer, "ID: %s\n", identity.ID)
	_, _ = fmt.Fprintf(writer, "Name: %s\n", identity.Name)
	_, _ = fmt.Fprintf(writer, "National ID: %s\n", identity.NationalID)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", identity.Email)
	if identity.Role != identityDomain.RoleNone {
		_, _ = fmt.Fprintf(writer, "Role: %s\n", identity.Role)
	}
	return nil
}

// RunListIdentities prints the identities matching every non-empty filter.
func RunListIdentities(
	ctx context.Context,
	useCase identityUseCase.IdentityUseCase,
	writer io.Writer,
	email, nationalID, role string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	query := dto.ListIdentitiesQuery{
		Email:      optional(email),
		NationalID: optional(nationalID),
		Role:       optional(role),
	}
	filter, err := query.ToFilter()
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	identities, err := useCase.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list identities: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, dto.MapIdentitiesToListResponse(identities))
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tNATIONAL ID\tEMAIL\tROLE\tCREATED AT")
	for _, identity := range identities {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			identity.ID,
			identity.Name,
			identity.NationalID,
			identity.Email,
			identity.Role,
			identity.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.Flush()
}
