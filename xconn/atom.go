package xconn

// Atom names the core interns at startup and maintains during operation.
const (
	AtomWMProtocols    = "WM_PROTOCOLS"
	AtomWMDeleteWindow = "WM_DELETE_WINDOW"
	AtomWMState        = "WM_STATE"
	AtomWMClass        = "WM_CLASS"
	AtomWMName         = "WM_NAME"
	AtomWMTakeFocus    = "WM_TAKE_FOCUS"

	AtomNetSupported        = "_NET_SUPPORTED"
	AtomNetWMName           = "_NET_WM_NAME"
	AtomNetWMState          = "_NET_WM_STATE"
	AtomNetWMDesktop        = "_NET_WM_DESKTOP"
	AtomNetWMWindowType     = "_NET_WM_WINDOW_TYPE"
	AtomNetActiveWindow     = "_NET_ACTIVE_WINDOW"
	AtomNetClientList       = "_NET_CLIENT_LIST"
	AtomNetCurrentDesktop   = "_NET_CURRENT_DESKTOP"
	AtomNetDesktopNames     = "_NET_DESKTOP_NAMES"
	AtomNetNumberOfDesktops = "_NET_NUMBER_OF_DESKTOPS"
	AtomNetSupportingWMCheck = "_NET_SUPPORTING_WM_CHECK"
)

// AutoFloatWindowTypes are the _NET_WM_WINDOW_TYPE values that are floated
// automatically when a matching window is managed.
var AutoFloatWindowTypes = []string{
	"_NET_WM_WINDOW_TYPE_COMBO",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_POPUP_MENU",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_UTILITY",
}

// DontManageWindowTypes lists the window types that are conventionally left
// unmanaged. The core's manage path does not consult this list: windows of
// these types are managed like any other.
var DontManageWindowTypes = []string{
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
}

// SupportedProperties is the value advertised through _NET_SUPPORTED.
var SupportedProperties = []string{
	AtomNetSupported,
	AtomNetWMName,
	AtomNetWMState,
	AtomNetWMDesktop,
	AtomNetWMWindowType,
	AtomNetActiveWindow,
	AtomNetClientList,
	AtomNetCurrentDesktop,
	AtomNetDesktopNames,
	AtomNetNumberOfDesktops,
	AtomNetSupportingWMCheck,
}
