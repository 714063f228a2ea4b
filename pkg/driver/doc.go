// Package driver defines the contract every unmail vendor adapter satisfies
// and the factory that wraps adapters with the shared request validation.
//
// # Writing a driver
//
// A vendor package implements Adapter and exposes a constructor built with
// Define. The constructor validates the vendor Config (validate tags), applies
// the shared options and wraps the adapter in a *Driver:
//
//	type Config struct {
//		APIKey string `env:"ACME_API_KEY" validate:"required"`
//	}
//
//	var newDriver = driver.Define(func(cfg Config, o driver.Options) (driver.Adapter, error) {
//		return &adapter{client: o.Transport(baseURL, transport.WithBearerToken(cfg.APIKey))}, nil
//	})
//
//	func New(cfg Config, opts ...driver.Option) (*driver.Driver, error) {
//		return newDriver(cfg, opts...)
//	}
//
// Driver.SendMail always runs mail.Validate before the adapter, so no adapter
// can skip the base checks.
//
// # Payload modifiers
//
// Adapters translate the canonical request into a vendor Payload. A caller
// may install one PayloadModifier per driver; it runs on the fully built
// payload right before transmission:
//
//	d.SetPayloadModifier(func(p driver.Payload) driver.Payload {
//		p["ip_pool_name"] = "transactional"
//		return p
//	})
//
// Installing a new modifier replaces the previous one. Passing nil restores
// the identity behavior.
package driver
