package dto

// SubscriptionKeys carries the client-side encryption material of a Web Push
// subscription.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SubscribeRequest registers a browser push subscription for the caller
type SubscribeRequest struct {
	Endpoint string           `json:"endpoint" binding:"required,url"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

// UnsubscribeRequest removes one of the caller's push subscriptions
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}

// PublicKeyResponse exposes the VAPID public key to subscribing clients
type PublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
