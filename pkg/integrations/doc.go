// Package integrations provides the resilient HTTP access layer and the
// upstream clients built on it.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [autodoc]: the original-parts catalog (brands, wizard, modifications,
//     category tree, spare-part groups) plus the autodoc article search
//   - [exist]: exist.ru price listings
//   - [avtoto]: avtoto.ru price listings
//
// # Access Layer
//
// The [Client] type is shared by every upstream client. For each request it:
//   - waits on a randomized pacing window so requests are never back-to-back
//   - sets a User-Agent drawn from a fixed browser pool
//   - retries HTTP 429 with a linear back-off (step * attempt)
//   - retries transport failures after a fixed wait
//   - fails fast on any other non-200 status with [*UpstreamError]
//
// Exhausted retries surface as [ErrRateLimited], [ErrTimeout] or
// [ErrNetwork]; [Code] maps any of these onto the structured error codes in
// pkg/errors. The access layer never touches resolution state: it only
// returns bytes or a failure.
//
// # Storefront pages
//
// Some storefronts render offers server-side into an inline script.
// [ScriptJSON] pulls that JSON out of the page so the source can decode it
// with encoding/json like any API response.
//
// [autodoc]: github.com/matzehuels/partscout/pkg/integrations/autodoc
// [exist]: github.com/matzehuels/partscout/pkg/integrations/exist
// [avtoto]: github.com/matzehuels/partscout/pkg/integrations/avtoto
package integrations
