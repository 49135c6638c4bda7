// Package dashboard implements the navigation and stateful-edit engine
// behind the operator's chat dashboard: it turns button presses (opaque
// action tokens) and free-text replies into rendered screens and tree
// store mutations, tracking a single pending text-capture operation per
// operator.
package dashboard

// ScreenKind identifies one of the screens the renderer can produce.
type ScreenKind int

const (
	ScreenDashboard ScreenKind = iota
	ScreenList
	ScreenApps
	ScreenAppDetail
	ScreenEditDescriptionPrompt
	ScreenEditPINPrompt
	ScreenDevices
	ScreenDeviceDetail
	ScreenMessagePrompt
	ScreenHelp
	ScreenAccessDenied
)

// ScreenRequest describes which screen to render and with what
// parameters. Requests are created fresh per inbound event and never
// persisted.
type ScreenRequest struct {
	Kind     ScreenKind
	AppID    string
	DeviceID string
	Bucket   string
}

// Button is one inline keyboard button: a label and the action token its
// press sends back.
type Button struct {
	Label  string
	Action string
}

// Screen is a rendered screen: display text plus button rows. An empty
// keyboard means the message is sent without buttons.
type Screen struct {
	Text     string
	Keyboard [][]Button
}
