package domain

// NotificationKind tags a content-free "please re-fetch" push signal.
type NotificationKind string

// Notification kinds understood by connected clients. The wire values are
// part of the client protocol.
const (
	FullRefresh       NotificationKind = "full_update_required"
	ShopRefresh       NotificationKind = "shop_update_required"
	AdminPanelRefresh NotificationKind = "admin_panel_update_required"
)

// Notification is the wire shape of a push signal. It never carries a
// payload; receivers re-fetch the authoritative state.
type Notification struct {
	Type NotificationKind `json:"type"`
}
