package notification

// Permission mirrors the browser notification permission states.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// PermissionGate asks the user-facing platform whether notifications may be
// shown. The browser/OS permission prompt sits behind implementations; a
// denial is not an error, dispatch just aborts.
type PermissionGate interface {
	Request() Permission
}

// StaticGate always answers with a fixed permission; servers that deliver
// through an already-authorized channel use StaticGate(PermissionGranted).
type StaticGate Permission

var _ PermissionGate = StaticGate("")

func (g StaticGate) Request() Permission { return Permission(g) }
