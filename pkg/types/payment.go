package types

// Network is a supported settlement chain.
type Network string

const (
	NetworkPolygon  Network = "polygon"
	NetworkEthereum Network = "ethereum"
	NetworkBSC      Network = "bsc"
	NetworkRonin    Network = "ronin"
)

// TokenSymbol is a supported payment token.
type TokenSymbol string

const (
	TokenUSDC TokenSymbol = "USDC"
	TokenUSDT TokenSymbol = "USDT"
	TokenETH  TokenSymbol = "ETH"
	TokenBNB  TokenSymbol = "BNB"
	TokenRON  TokenSymbol = "RON"
	TokenAXS  TokenSymbol = "AXS"
)

// WalletKind identifies the payer's wallet application. It drives
// network/token selection when a payment request is created.
type WalletKind string

const (
	WalletKindMetaMask      WalletKind = "metamask"
	WalletKindRonin         WalletKind = "ronin"
	WalletKindTrust         WalletKind = "trust"
	WalletKindWalletConnect WalletKind = "walletconnect"
)

// PaymentStatus is the lifecycle state of a payment request.
// Transitions are monotone: pending is the only non-terminal state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusExpired || s == PaymentStatusFailed
}

// UploadStatus tracks the settlement upload outcome on a completed payment.
type UploadStatus string

const (
	UploadStatusNone      UploadStatus = ""
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// StorageTxStatus is the state of a storage transaction row.
type StorageTxStatus string

const (
	StorageTxStatusUploading StorageTxStatus = "uploading"
	StorageTxStatusConfirmed StorageTxStatus = "confirmed"
	StorageTxStatusFailed    StorageTxStatus = "failed"
)
