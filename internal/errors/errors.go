package errors

import "errors"

// Configuration errors abort a run before or while it writes output.
var (
	// ErrPassphraseRequired indicates a private post was found but no passphrase was supplied.
	ErrPassphraseRequired = errors.New("passphrase required for private posts")

	// ErrEmptyPassphrase indicates a passphrase source was found but held no usable bytes.
	ErrEmptyPassphrase = errors.New("passphrase is empty")

	// ErrKeyFileNotFound indicates an explicitly requested key file does not exist.
	ErrKeyFileNotFound = errors.New("key file not found")

	// ErrInvalidConfig indicates musings.toml could not be decoded or holds bad values.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidTimezone indicates the configured authoring time zone is unknown.
	ErrInvalidTimezone = errors.New("unknown time zone")
)

// Source errors indicate a post could not be read or is not well formed.
var (
	// ErrSourceUnreadable indicates a source file or directory could not be read.
	ErrSourceUnreadable = errors.New("source is unreadable")

	// ErrNoPostsFound indicates the source directory holds no markdown posts.
	ErrNoPostsFound = errors.New("no posts found")

	// ErrPostNotFound indicates a single post file passed to add does not exist.
	ErrPostNotFound = errors.New("post file not found")

	// ErrMissingFrontMatter indicates a post does not start with a front matter block.
	ErrMissingFrontMatter = errors.New("missing front matter")

	// ErrInvalidFrontMatter indicates the front matter is not valid YAML.
	ErrInvalidFrontMatter = errors.New("invalid front matter")

	// ErrInvalidPrivacy indicates privacy is neither public nor private.
	ErrInvalidPrivacy = errors.New("privacy must be 'public' or 'private'")

	// ErrInvalidPostID indicates a post id is empty or not path-safe.
	ErrInvalidPostID = errors.New("invalid post id")

	// ErrDuplicatePostID indicates two posts in the same run share an id.
	ErrDuplicatePostID = errors.New("duplicate post id")

	// ErrMissingTimestamp indicates a post has no date.
	ErrMissingTimestamp = errors.New("date is required")

	// ErrInvalidTimestamp indicates a post date could not be parsed.
	ErrInvalidTimestamp = errors.New("invalid date")
)

// Cryptographic errors indicate failures deriving keys or opening ciphertext.
var (
	// ErrInvalidKDFParams indicates scrypt cost parameters are out of range.
	ErrInvalidKDFParams = errors.New("invalid key derivation parameters")

	// ErrUnsupportedKDF indicates a blob names a key derivation function other than scrypt.
	ErrUnsupportedKDF = errors.New("unsupported key derivation function")

	// ErrUnsupportedCipher indicates a blob names a cipher other than AES-256-GCM.
	ErrUnsupportedCipher = errors.New("unsupported cipher")

	// ErrAssociatedDataMismatch indicates a blob's associated data does not name its own id and version.
	ErrAssociatedDataMismatch = errors.New("associated data does not match blob identity")

	// ErrAuthenticationFailed indicates AES-GCM rejected the ciphertext.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Blob errors indicate a persisted blob record is not usable.
var (
	// ErrMalformedBlob indicates a blob is not a well-formed record.
	ErrMalformedBlob = errors.New("malformed blob")

	// ErrUnsupportedVersion indicates a blob schema version this build does not know.
	ErrUnsupportedVersion = errors.New("unsupported blob version")

	// ErrUnknownTier indicates a tier other than public or master.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrNotEncrypted indicates a decrypt was attempted on a public blob.
	ErrNotEncrypted = errors.New("blob is not encrypted")
)

// Validation errors are collected per manifest entry rather than aborting.
var (
	// ErrMissingBlob indicates a manifest entry points at a file that does not exist.
	ErrMissingBlob = errors.New("missing blob")

	// ErrPathEscapesRoot indicates a manifest path resolves outside the output directory.
	ErrPathEscapesRoot = errors.New("blob path escapes output directory")

	// ErrIDMismatch indicates the blob's id differs from its manifest entry.
	ErrIDMismatch = errors.New("blob id does not match manifest entry")

	// ErrTierMismatch indicates the blob's tier differs from its manifest entry.
	ErrTierMismatch = errors.New("blob tier does not match manifest entry")

	// ErrSizeMismatch indicates the blob's byte size differs from its manifest entry.
	ErrSizeMismatch = errors.New("blob size does not match manifest entry")

	// ErrHashMismatch indicates the blob's digest differs from its manifest entry.
	ErrHashMismatch = errors.New("blob hash does not match manifest entry")

	// ErrMalformedManifest indicates manifest.json exists but could not be decoded.
	ErrMalformedManifest = errors.New("malformed manifest")
)
