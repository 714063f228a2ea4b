// Package storage uploads attachment content to S3-compatible object storage.
//
// Some vendors cannot embed inline attachments sent as raw bytes. For those,
// the content is uploaded first and the vendor receives a URL instead. The
// Externaliser type plugs an S3 store into any driver through
// driver.WithExternaliser:
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "mail-assets",
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//		PublicURL: "https://cdn.example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	d, err := resend.New(
//		resend.Config{APIKey: key, ExternaliseInlineAttachments: true},
//		driver.WithExternaliser(storage.NewExternaliser(store)),
//	)
//
// # Keys
//
// Uploaded objects are stored as {prefix}/{uuid}/{filename}. When no filename
// is known the extension is derived from the detected MIME type.
//
// # URLs
//
// Public objects resolve to PublicURL (or the bucket URL) joined with the key.
// Private objects get a presigned GET URL:
//
//	url, err := store.URL(ctx, info.Key, storage.WithExpiry(time.Hour))
//
// # Configuration
//
// Config carries env tags for github.com/caarlos0/env:
//
//	STORAGE_BUCKET, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY, STORAGE_ENDPOINT,
//	STORAGE_REGION, STORAGE_PUBLIC_URL, STORAGE_PREFIX, STORAGE_DEFAULT_ACL,
//	STORAGE_PATH_STYLE
package storage
