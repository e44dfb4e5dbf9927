package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// CatalogPage is the scraped title and description of one course.
type CatalogPage struct {
	Title string
	Desc  string
}

// CatalogPageClient fetches course pages from the public catalog site.
type CatalogPageClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogPageClient creates a client with the page-fetch timeout.
func NewCatalogPageClient(baseURL string) *CatalogPageClient {
	return &CatalogPageClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchCourse retrieves one course's catalog page. Courses the catalog
// site does not know come back with placeholder title and description,
// matching the feed's behavior for brand-new offerings.
func (c *CatalogPageClient) FetchCourse(ctx context.Context, courseCode string) (CatalogPage, error) {
	page := CatalogPage{Title: "Unknown", Desc: "No Description"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/?P="+url.QueryEscape(courseCode), nil)
	if err != nil {
		return page, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return page, fmt.Errorf("catalog page fetch for %s failed: %w", courseCode, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return page, fmt.Errorf("catalog page for %s returned status %d", courseCode, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return page, fmt.Errorf("catalog page for %s unparseable: %w", courseCode, err)
	}

	result := findByClass(doc, "div", "search-courseresult")
	if result == nil {
		return page, nil
	}
	if h2 := findElement(result, "h2"); h2 != nil {
		// Headers read "CS 101. Course Title. 3 credits" — the title is
		// the second period-separated token.
		parts := strings.Split(nodeText(h2), ".")
		if len(parts) > 1 {
			if title := strings.TrimSpace(parts[1]); title != "" {
				page.Title = title
			}
		}
	}
	if p := findByClass(result, "p", "courseblockdesc"); p != nil {
		if desc := strings.TrimSpace(nodeText(p)); desc != "" {
			page.Desc = desc
		}
	}
	return page, nil
}

// findByClass walks the tree for the first element with the given tag and
// class token.
func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		for _, attr := range n.Attr {
			if attr.Key == "class" && hasClassToken(attr.Val, class) {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByClass(child, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

func hasClassToken(classAttr, token string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == token {
			return true
		}
	}
	return false
}
