package sqlstore

import "github.com/goliatone/go-vendors/core"

var (
	_ core.VendorTypeStore        = (*VendorTypeStore)(nil)
	_ core.VendorInstanceStore    = (*VendorInstanceStore)(nil)
	_ core.CredentialStore        = (*CredentialStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
