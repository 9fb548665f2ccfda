package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rodrigonormandia/go-pdfleaf/internal/fileutil"
)

// MaxAssetSize caps a single inlined file (default 10MB).
var MaxAssetSize int64 = 10 << 20

// ErrAssetTooLarge is returned when a referenced local file exceeds MaxAssetSize.
var ErrAssetTooLarge = errors.New("asset exceeds maximum size")

// InlineLocalAssets replaces references to local files with their content so
// the remote renderer can see them. If sourceDir is empty, returns the HTML
// unchanged.
//
// Inlines:
//   - img[src]: relative image paths become data: URIs
//   - link[rel=stylesheet][href]: relative stylesheets become <style> blocks
//
// Leaves alone:
//   - URLs, data: URIs, anchors and absolute paths
//   - paths that resolve outside sourceDir
//   - missing files (the renderer shows a broken image, as a browser would)
//
// Files that exist but cannot be read, or exceed MaxAssetSize, are errors.
func InlineLocalAssets(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	if err := inlineNode(doc, absSourceDir); err != nil {
		return "", err
	}

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string. Fragments render their
// children only, without an <html><body> wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// inlineNode walks the tree. The next sibling is captured before visiting a
// node because stylesheet links are replaced in place.
func inlineNode(n *html.Node, sourceDir string) error {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			if err := inlineImage(n, sourceDir); err != nil {
				return err
			}
		case atom.Link:
			if err := inlineStylesheet(n, sourceDir); err != nil {
				return err
			}
		}
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if err := inlineNode(c, sourceDir); err != nil {
			return err
		}
		c = next
	}
	return nil
}

func inlineImage(n *html.Node, sourceDir string) error {
	for i, attr := range n.Attr {
		if attr.Key != "src" {
			continue
		}
		data, path, err := readLocalAsset(attr.Val, sourceDir)
		if err != nil || data == nil {
			return err
		}
		n.Attr[i].Val = dataURI(path, data)
	}
	return nil
}

func inlineStylesheet(n *html.Node, sourceDir string) error {
	if !strings.EqualFold(getAttr(n, "rel"), "stylesheet") {
		return nil
	}
	data, _, err := readLocalAsset(getAttr(n, "href"), sourceDir)
	if err != nil || data == nil || n.Parent == nil {
		return err
	}

	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	if media := getAttr(n, "media"); media != "" {
		style.Attr = []html.Attribute{{Key: "media", Val: media}}
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: sanitizeCSS(string(data))})

	n.Parent.InsertBefore(style, n)
	n.Parent.RemoveChild(n)
	return nil
}

// readLocalAsset resolves ref against sourceDir and reads it. A nil slice
// with a nil error means "leave the reference as is".
func readLocalAsset(ref, sourceDir string) ([]byte, string, error) {
	if !isRelativePath(ref) {
		return nil, "", nil
	}

	// Strip query/fragment; decode %20 and friends.
	if i := strings.IndexAny(ref, "?#"); i != -1 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}

	absPath := filepath.Join(sourceDir, filepath.FromSlash(ref))
	if !isPathUnderDir(absPath, sourceDir) || !fileutil.FileExists(absPath) {
		return nil, "", nil
	}

	// Compare resolved paths so a symlink cannot point outside sourceDir.
	realPath, err := resolvePath(absPath)
	if err != nil {
		return nil, "", nil
	}
	realDir, err := resolvePath(sourceDir)
	if err != nil || !isPathUnderDir(realPath, realDir) {
		return nil, "", nil
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > MaxAssetSize {
		return nil, "", fmt.Errorf("%w: %s (%d bytes, max %d)", ErrAssetTooLarge, ref, info.Size(), MaxAssetSize)
	}

	data, err := os.ReadFile(realPath) // #nosec G304 -- confined to sourceDir above
	if err != nil {
		return nil, "", fmt.Errorf("reading asset %s: %w", ref, err)
	}
	return data, absPath, nil
}

func dataURI(path string, data []byte) string {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if i := strings.IndexByte(mediaType, ';'); i != -1 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isRelativePath returns true if the reference points at a local relative file.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}
	if fileutil.IsURL(path) ||
		fileutil.IsDataURI(path) ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "//") ||
		strings.HasPrefix(path, "#") {
		return false
	}
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// resolvePath returns the absolute path with all symlinks evaluated.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
