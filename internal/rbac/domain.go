package rbac

// Permission names used across the accounting surface.
const (
	PermAccountingView   = "accounting.view"
	PermAccountingManage = "accounting.manage"
	PermAccountingPost   = "accounting.post"
	PermMasterdataManage = "masterdata.manage"
)
