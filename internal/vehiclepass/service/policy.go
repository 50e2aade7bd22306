package service

import (
	"errors"

	"vehiclepass/internal/auth"
)

// Operation names an access-controlled capability of the core.
type Operation string

const (
	OpCreateRecord  Operation = "record.create"
	OpUpdateRecord  Operation = "record.update"
	OpDeleteRecord  Operation = "record.delete"
	OpListRecords   Operation = "record.list"
	OpImportBatch   Operation = "batch.import"
	OpValidateToken Operation = "token.validate"
)

// ErrForbidden means the principal's role may not perform the operation.
var ErrForbidden = errors.New("operation not allowed for role")

// allowedRoles maps each operation to the roles that may perform it.
// Registry mutations and reads are admin territory; token validation is
// also open to the checkpoint validator accounts.
var allowedRoles = map[Operation][]auth.Role{
	OpCreateRecord:  {auth.RoleAdmin},
	OpUpdateRecord:  {auth.RoleAdmin},
	OpDeleteRecord:  {auth.RoleAdmin},
	OpListRecords:   {auth.RoleAdmin},
	OpImportBatch:   {auth.RoleAdmin},
	OpValidateToken: {auth.RoleAdmin, auth.RoleValidator},
}

// Authorize checks that the principal may perform op.
func Authorize(p auth.Principal, op Operation) error {
	for _, r := range allowedRoles[op] {
		if p.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
