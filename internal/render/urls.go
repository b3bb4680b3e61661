package render

import "net/url"

// withQueryArg returns page as a request URI with key set to value. An empty
// value removes the key.
func withQueryArg(page *url.URL, key, value string) string {
	u := *page
	q := u.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()
	u.Scheme, u.Host, u.User = "", "", nil
	return u.RequestURI()
}
