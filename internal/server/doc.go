// Package server exposes image comparison to MCP (Model Context Protocol)
// clients.
//
// A client, typically an agent running a UI test, hands the server a fresh
// screenshot and the baseline it should match. The server answers with the
// comparison state and the rectangles that changed, and offers follow-up
// tools to look at those rectangles more closely.
//
// # Transport
//
// JSON-RPC 2.0, one request per line on stdin and one response per line on
// stdout. Logs go to stderr. The methods are initialize, tools/list,
// tools/call and ping; requests without an ID are notifications and get no
// response.
//
// # Tools
//
//	image_load                image metadata
//	image_dimensions          width and height
//	image_compare             state, difference percent, rectangles, optional annotated output
//	image_difference_percent  overall difference of two same-sized images
//	image_sample_pixels       colors and distance of chosen pixels in both images
//	image_crop_region         one rectangle with context, as base64 PNG
//	image_resize              rescale a screenshot to a baseline's size
//
// Options of image_compare fall back to the config.Profile the server was
// created with, and relative image paths are looked up in the profile's
// baseline directories. Baselines are cached between calls. The actual image
// of image_compare is always read from disk again, since it is usually
// rewritten between calls.
//
// # Errors
//
//	-32700  request line is not JSON
//	-32601  unknown method
//	-32602  missing or malformed tool arguments
//	-32000  any other tool failure; data holds the error text
//
// Starting a server:
//
//	srv := server.New(config.Default(), version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
