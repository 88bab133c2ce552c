package httpkit

import "net/http"

// MountUnder routes a module's registrations under prefix, applying the
// module middlewares to that subtree only
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		for _, m := range mw {
			sub.Use(m)
		}
		mount(sub)
	})
}
