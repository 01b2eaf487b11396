// Package imaging prepares remote artwork for upload: download with a bounded
// timeout, decode (PNG, JPEG, GIF, WebP), downscale to a maximum edge, and
// re-encode as a PNG data URI.
package imaging
