package parser

import "github.com/tidwall/gjson"

// LoaderRouteKey is the router key under which the product detail page keeps
// its loader data.
const LoaderRouteKey = "(shop$)/(pdp)/(name$)/(id)/page"

const productInfoKey = "productInfo"

const (
	maxSearchDepth  = 256
	maxVisitedNodes = 1_000_000
)

var productInfoPath = []string{"loaderData", LoaderRouteKey, "initialData", productInfoKey}

// Locate looks for the product info value in a document of unknown shape.
// When the document is an array the known loader path is tried on every
// element first. Otherwise, or when no element has it, the whole tree is
// searched depth-first in document order.
// A missing field is reported with ok == false; it is not an error.
func Locate(doc gjson.Result) (value gjson.Result, ok bool) {
	if value, ok = locateKnownPath(doc); ok {
		return value, true
	}
	return searchField(doc, productInfoKey)
}

func locateKnownPath(doc gjson.Result) (gjson.Result, bool) {
	if !doc.IsArray() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	hit := false
	doc.ForEach(func(_, element gjson.Result) bool {
		found, hit = followPath(element, productInfoPath)
		return !hit
	})
	return found, hit
}

func followPath(node gjson.Result, path []string) (gjson.Result, bool) {
	current := node
	for _, key := range path {
		next, ok := field(current, key)
		if !ok {
			return gjson.Result{}, false
		}
		current = next
	}
	if current.Type == gjson.Null {
		return gjson.Result{}, false
	}
	return current, true
}

// field returns the first member of an object named key. Keys are compared
// literally, so route keys with path metacharacters need no escaping.
func field(node gjson.Result, key string) (gjson.Result, bool) {
	if !node.IsObject() {
		return gjson.Result{}, false
	}
	var value gjson.Result
	found := false
	node.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			value, found = v, true
			return false
		}
		return true
	})
	return value, found
}

type searchFrame struct {
	node  gjson.Result
	depth int
}

// searchField walks the tree with an explicit stack. Each object's own key is
// checked before its children are visited, children in document order.
// Subtrees below maxSearchDepth are skipped and the walk gives up after
// maxVisitedNodes containers.
func searchField(doc gjson.Result, key string) (gjson.Result, bool) {
	stack := []searchFrame{{node: doc}}
	visited := 0

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > maxVisitedNodes {
			return gjson.Result{}, false
		}

		if frame.node.IsObject() {
			if value, ok := field(frame.node, key); ok && value.Type != gjson.Null {
				return value, true
			}
		}
		if frame.depth >= maxSearchDepth {
			continue
		}

		var children []gjson.Result
		frame.node.ForEach(func(_, v gjson.Result) bool {
			if v.IsObject() || v.IsArray() {
				children = append(children, v)
			}
			return true
		})
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, searchFrame{node: children[i], depth: frame.depth + 1})
		}
	}

	return gjson.Result{}, false
}
