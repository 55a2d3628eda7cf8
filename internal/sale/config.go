package sale

type Config struct {
	// PrivateKey is the service signing key, base58 or a JSON byte array.
	PrivateKey string `envconfig:"PRIVATE_KEY" required:"true"`

	// TokenMint is the base58 mint address of the token being sold.
	TokenMint string `envconfig:"TOKEN_MINT" required:"true"`

	// MinReserveSol is the native balance the service always retains so it
	// can pay network fees for its own operations.
	MinReserveSol string `envconfig:"MIN_RESERVE_SOL" default:"0.002"`

	// DefaultSolAmount applies when a purchase request omits solAmount.
	DefaultSolAmount string `envconfig:"DEFAULT_SOL_AMOUNT" default:"0.001"`

	// DefaultTokenAmount applies when a payout request omits tokenAmount.
	DefaultTokenAmount string `envconfig:"DEFAULT_TOKEN_AMOUNT" default:"1"`
}
