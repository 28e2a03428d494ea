package model

import "strings"

// BasePath turns a URL path into the directory used for page-relative
// fetches: "/research" and "/research/" both become "/research/".
func BasePath(urlPath string) string {
	if urlPath == "" {
		return "/"
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	if strings.HasSuffix(urlPath, "/") {
		return urlPath
	}
	return urlPath + "/"
}
