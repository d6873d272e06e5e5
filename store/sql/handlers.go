package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func vendorInstanceHandlers() repository.ModelHandlers[*vendorInstanceRecord] {
	return repository.ModelHandlers[*vendorInstanceRecord]{
		NewRecord: func() *vendorInstanceRecord {
			return &vendorInstanceRecord{}
		},
		GetID: func(record *vendorInstanceRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *vendorInstanceRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *vendorInstanceRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func vendorCredentialHandlers() repository.ModelHandlers[*vendorCredentialRecord] {
	return repository.ModelHandlers[*vendorCredentialRecord]{
		NewRecord: func() *vendorCredentialRecord {
			return &vendorCredentialRecord{}
		},
		GetID: func(record *vendorCredentialRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *vendorCredentialRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *vendorCredentialRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
