// Package posts reads authored markdown posts from the source directory.
//
// Each post starts with YAML front matter:
//
//	---
//	id: my-post                # optional, defaults to the slugged file name
//	date: 2025-08-24T21:30:00  # required; no offset means the authoring zone
//	privacy: public            # public | private, default private
//	tags: [foo, bar]
//	pinned: false
//	---
//
// Dates are normalized to UTC before anything else sees them. The time zone
// database is embedded so the authoring zone resolves on any host.
package posts
