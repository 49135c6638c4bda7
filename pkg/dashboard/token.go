package dashboard

import "strings"

// Action token heads. The head is the first colon-separated segment of a
// callback token; the remaining segments are screen parameters.
const (
	actDashboard       = "refresh"
	actList            = "list"
	actApps            = "apps"
	actAppDetail       = "app"
	actEditDescription = "app_edit_desc"
	actEditPIN         = "app_edit_pin"
	actDevices         = "devices"
	actDeviceDetail    = "device"
	actMessagePrompt   = "msg"
	actToggleSound     = "sound"
	actCycleFlash      = "flash"
	actHelp            = "help_set"
)

// ActionKind identifies what a pressed button asks for.
type ActionKind int

const (
	ActionDashboard ActionKind = iota
	ActionList
	ActionApps
	ActionAppDetail
	ActionEditDescription
	ActionEditPIN
	ActionDevices
	ActionDeviceDetail
	ActionMessagePrompt
	ActionToggleSound
	ActionCycleFlash
	ActionHelp
)

// Action is a parsed callback token.
type Action struct {
	Kind     ActionKind
	AppID    string
	DeviceID string
	Bucket   string
}

// ParseAction decodes a callback token. Tokens carry at most three
// colon-separated segments: a head plus up to two parameters. Missing
// trailing segments default to empty strings, and anything that does not
// match a known head and arity falls back to the dashboard, so a stale or
// mangled token can never fail a button press.
func ParseAction(token string) Action {
	parts := strings.Split(token, ":")
	if len(parts) > 3 {
		return Action{Kind: ActionDashboard}
	}

	var arg1, arg2 string
	if len(parts) > 1 {
		arg1 = parts[1]
	}
	if len(parts) > 2 {
		arg2 = parts[2]
	}

	switch parts[0] {
	case actDashboard:
		if len(parts) == 1 {
			return Action{Kind: ActionDashboard}
		}
	case actList:
		if len(parts) == 1 {
			return Action{Kind: ActionList}
		}
	case actApps:
		if len(parts) == 1 {
			return Action{Kind: ActionApps}
		}
	case actHelp:
		if len(parts) == 1 {
			return Action{Kind: ActionHelp}
		}
	case actAppDetail:
		if len(parts) <= 2 {
			return Action{Kind: ActionAppDetail, AppID: arg1}
		}
	case actEditDescription:
		if len(parts) <= 2 {
			return Action{Kind: ActionEditDescription, AppID: arg1}
		}
	case actEditPIN:
		if len(parts) <= 2 {
			return Action{Kind: ActionEditPIN, AppID: arg1}
		}
	case actDevices:
		return Action{Kind: ActionDevices, AppID: arg1, Bucket: arg2}
	case actDeviceDetail:
		return Action{Kind: ActionDeviceDetail, AppID: arg1, DeviceID: arg2}
	case actMessagePrompt:
		return Action{Kind: ActionMessagePrompt, AppID: arg1, DeviceID: arg2}
	case actToggleSound:
		return Action{Kind: ActionToggleSound, AppID: arg1, DeviceID: arg2}
	case actCycleFlash:
		return Action{Kind: ActionCycleFlash, AppID: arg1, DeviceID: arg2}
	}

	return Action{Kind: ActionDashboard}
}

func tokenAppDetail(appID string) string {
	return actAppDetail + ":" + appID
}

func tokenEditDescription(appID string) string {
	return actEditDescription + ":" + appID
}

func tokenEditPIN(appID string) string {
	return actEditPIN + ":" + appID
}

func tokenDevices(appID string) string {
	return actDevices + ":" + appID
}

func tokenDevicesBucket(appID, bucket string) string {
	return actDevices + ":" + appID + ":" + bucket
}

func tokenDeviceDetail(appID, deviceID string) string {
	return actDeviceDetail + ":" + appID + ":" + deviceID
}

func tokenMessagePrompt(appID, deviceID string) string {
	return actMessagePrompt + ":" + appID + ":" + deviceID
}

func tokenToggleSound(appID, deviceID string) string {
	return actToggleSound + ":" + appID + ":" + deviceID
}

func tokenCycleFlash(appID, deviceID string) string {
	return actCycleFlash + ":" + appID + ":" + deviceID
}
