package registry

import (
	"time"

	"github.com/specvital/baseline/pkg/domain"
)

// widelyAvailableAfterMonths is the interval between a feature becoming newly
// available and widely available.
const widelyAvailableAfterMonths = 30

type builtinDef struct {
	feature  domain.Feature
	patterns []Pattern
}

func def(id, name, description string, status domain.BaselineStatus, exprs ...string) builtinDef {
	patterns := make([]Pattern, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, MustRegex(expr))
	}
	return builtinDef{
		feature: domain.Feature{
			Description: description,
			ID:          id,
			Name:        name,
			Status:      status,
		},
		patterns: patterns,
	}
}

func mustDate(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func widely(low string, support map[string]string) domain.BaselineStatus {
	lowDate := mustDate(low)
	highDate := lowDate.AddDate(0, widelyAvailableAfterMonths, 0)
	return domain.NewStatus(lowDate, &highDate, false, support)
}

func newly(low string) domain.BaselineStatus {
	return domain.NewStatus(mustDate(low), nil, false, nil)
}

func notBaseline() domain.BaselineStatus {
	return domain.NewStatus(nil, nil, false, nil)
}

func builtinFeatures() []builtinDef {
	return []builtinDef{
		def("optional-chaining", "Optional Chaining", "Safe navigation operator for object properties",
			widely("2020-04-21", map[string]string{"chrome": "80", "edge": "80", "firefox": "74", "safari": "13.1"}),
			`\?\.`),
		def("nullish-coalescing", "Nullish Coalescing", "Logical operator for null/undefined values",
			widely("2020-04-21", map[string]string{"chrome": "80", "edge": "80", "firefox": "72", "safari": "13.1"}),
			`\?\?`),
		def("async-await", "Async/Await", "Modern asynchronous JavaScript syntax",
			widely("2017-09-05", map[string]string{"chrome": "55", "edge": "15", "firefox": "52", "safari": "10.1"}),
			`async\s+function`, `await\s+`),
		def("fetch-api", "Fetch API", "Modern HTTP request API",
			widely("2017-03-07", map[string]string{"chrome": "42", "edge": "14", "firefox": "39", "safari": "10.1"}),
			`fetch\s*\(`),
		def("css-grid", "CSS Grid Layout", "Two-dimensional CSS layout system",
			widely("2017-03-16", map[string]string{"chrome": "57", "edge": "16", "firefox": "52", "safari": "10.1"}),
			`display:\s*grid`, `grid-template`, `grid-area`),
		def("css-flexbox", "CSS Flexbox", "One-dimensional CSS layout method",
			widely("2015-09-13", nil),
			`display:\s*flex`, `flex-direction`, `justify-content`),
		def("css-custom-properties", "CSS Custom Properties", "CSS variables for dynamic styling",
			widely("2018-01-29", nil),
			`var\(--[\w-]+\)`, `--[\w-]+:`),
		def("container-queries", "CSS Container Queries", "Responsive design based on container size",
			newly("2023-02-14"),
			`container-type`, `@container`),
		def("css-cascade-layers", "CSS Cascade Layers", "Explicit cascade control in CSS",
			newly("2022-03-14"),
			`@layer\s`),
		def("web-components", "Web Components", "Custom HTML elements",
			widely("2020-01-15", nil),
			`customElements\.define`, `class\s+\w+\s+extends\s+HTMLElement`),
		def("intersection-observer", "Intersection Observer", "Asynchronous element visibility detection",
			widely("2019-09-10", nil),
			`IntersectionObserver`),
		def("resize-observer", "Resize Observer", "Element size change detection",
			widely("2020-04-21", nil),
			`ResizeObserver`),
		def("webkit-prefixes", "WebKit Prefixes", "Deprecated vendor prefixes",
			notBaseline(),
			`-webkit-`, `webkit[A-Z]`),
		def("console-statements", "Console Statements", "Debug statements that should be removed",
			notBaseline(),
			`console\.(log|warn|error|info)`),
		def("eval-usage", "Eval Usage", "Security risk - avoid eval()",
			notBaseline(),
			`eval\s*\(`),
		def("template-literals", "Template Literals", "String interpolation with backticks",
			widely("2015-09-13", nil),
			"`[^`]*`"),
		def("destructuring-assignment", "Destructuring Assignment", "Extract values from arrays/objects",
			widely("2015-09-13", nil),
			`const\s*\{\s*[\w,\s]+\}\s*=`, `const\s*\[\s*[\w,\s]+\]\s*=`),
		def("spread-operator", "Spread Operator", "Expand iterables in places",
			widely("2015-09-13", nil),
			`\.\.\.\w+`),
		def("rest-parameters", "Rest Parameters", "Collect function arguments",
			widely("2015-09-13", nil),
			`\(.*\.\.\.\w+.*\)`),
		def("arrow-functions", "Arrow Functions", "Concise function syntax",
			widely("2015-09-13", nil),
			`=>\s*\{|=>\s*\w`),
		def("promises", "Promises", "Asynchronous operation handling",
			widely("2015-09-13", nil),
			`new Promise\(`, `Promise\.(resolve|reject|all|race)`),
		def("const-let", "Block-scoped Variables", "Modern variable declarations",
			widely("2015-09-13", nil),
			`\bconst\s+`, `\blet\s+`),
		def("css-has-selector", "CSS :has() Selector", "Parent selector in CSS",
			newly("2023-12-15"),
			`:has\(`),
		def("css-is-selector", "CSS :is() Selector", "Simplified selector grouping",
			widely("2021-04-20", nil),
			`:is\(`),
		def("css-where-selector", "CSS :where() Selector", "Zero-specificity selector grouping",
			widely("2021-04-20", nil),
			`:where\(`),
		def("css-aspect-ratio", "CSS aspect-ratio", "Element aspect ratio control",
			widely("2021-10-05", nil),
			`aspect-ratio:`),
		def("css-gap", "CSS gap Property", "Spacing in Grid and Flexbox",
			widely("2020-09-15", nil),
			`\bgap:`, `row-gap:`, `column-gap:`),
		def("css-clamp", "CSS clamp() Function", "Responsive value clamping",
			widely("2020-04-21", nil),
			`clamp\(`),
		def("css-min-max", "CSS min()/max() Functions", "Dynamic value calculation",
			widely("2020-04-21", nil),
			`\bmin\(`, `\bmax\(`),
		def("websocket", "WebSocket API", "Real-time bidirectional communication",
			widely("2015-07-29", nil),
			`new WebSocket\(`, `WebSocket\(`),
		def("geolocation", "Geolocation API", "Access device location",
			widely("2015-07-29", nil),
			`navigator\.geolocation`),
		def("local-storage", "Local Storage", "Client-side data persistence",
			widely("2015-07-29", nil),
			`localStorage\.`),
		def("session-storage", "Session Storage", "Session-based storage",
			widely("2015-07-29", nil),
			`sessionStorage\.`),
		def("indexeddb", "IndexedDB", "Client-side database",
			widely("2018-01-29", nil),
			`indexedDB`, `IDBDatabase`, `IDBObjectStore`),
		def("mutation-observer", "Mutation Observer", "DOM change detection",
			widely("2015-07-29", nil),
			`MutationObserver`),
		def("service-worker", "Service Workers", "Offline functionality and caching",
			widely("2018-01-29", nil),
			`navigator\.serviceWorker`, `ServiceWorker`),
		def("webrtc", "WebRTC", "Real-time communication",
			widely("2020-01-15", nil),
			`RTCPeerConnection`, `getUserMedia`),
		def("css-subgrid", "CSS Subgrid", "Nested grid alignment",
			newly("2023-09-11"),
			`grid-template-columns:\s*subgrid`, `grid-template-rows:\s*subgrid`),
		def("css-scroll-snap", "CSS Scroll Snap", "Smooth scrolling points",
			widely("2019-09-10", nil),
			`scroll-snap-type:`, `scroll-snap-align:`),
		def("css-backdrop-filter", "CSS backdrop-filter", "Background blur effects",
			widely("2022-03-14", nil),
			`backdrop-filter:`),
		def("intl-api", "Intl API", "Internationalization support",
			widely("2017-09-05", nil),
			`Intl\.(DateTimeFormat|NumberFormat|Collator)`),
		def("dynamic-import", "Dynamic Import", "Lazy loading modules",
			widely("2020-01-15", nil),
			`import\(`),
		def("bigint", "BigInt", "Arbitrary precision integers",
			widely("2020-04-21", nil),
			`\d+n\b`, `BigInt\(`),
		def("private-class-fields", "Private Class Fields", "Private class members",
			widely("2022-03-14", nil),
			`#\w+`),
		def("top-level-await", "Top-level Await", "Await outside async functions",
			widely("2022-03-14", nil),
			`^await\s+`),
	}
}
