package gateway

// DefaultLoginPath is the login entry point users are sent to when their
// session ends.
const DefaultLoginPath = "/login"

// Navigator performs a forced navigation, e.g. a browser redirect or a CLI
// prompt to log in again.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}
