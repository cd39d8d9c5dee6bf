package urdf

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const packagePrefix = "package://"

// ResolvePackagePath rewrites a package:// mesh reference to a concrete
// path or URL. Named packages take priority; otherwise base is joined
// with the package name (unless it already ends with it). References
// without the package:// scheme pass through unchanged.
func ResolvePackagePath(ref string, packages map[string]string, base string) (string, error) {
	if !strings.HasPrefix(ref, packagePrefix) {
		return ref, nil
	}

	rest := strings.TrimPrefix(ref, packagePrefix)
	name, rel, _ := strings.Cut(rest, "/")

	if dir, ok := packages[name]; ok {
		return joinRef(dir, rel), nil
	}
	if len(packages) > 0 {
		return "", fmt.Errorf("unknown package %q in %s", name, ref)
	}

	if base != "" {
		if base == name || strings.HasSuffix(base, "/"+name) {
			return joinRef(base, rel), nil
		}
		return joinRef(joinRef(base, name), rel), nil
	}

	return "", fmt.Errorf("no package mapping for %s", ref)
}

func joinRef(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// DefaultFetcher retrieves a resource from an http(s) URL or the local
// filesystem.
func DefaultFetcher(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := http.Get(ref)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", ref, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(ref)
}
