package shttp

var statusTexts = map[int]string{
	200: "Ok",
	204: "No Content",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
	501: "Not Implemented",
	520: "Unknown Error",
}

// StatusText returns the short text used for failure responses when no explicit text was
// configured. Codes outside the table fall back to a class description.
func StatusText(code int) string {
	if text, ok := statusTexts[code]; ok {
		return text
	}
	switch {
	case code < 400:
		return "Unknown"
	case code < 500:
		return "Request Error"
	default:
		return "Server Error"
	}
}
