// Package order holds the Order aggregate and its lifecycle.
//
// Decide is the only place that knows which events are legal from which
// status. It returns a Transition that Order.Apply copies onto the aggregate
// and that the store persists conditioned on the prior status:
//
//	PendingPayment --PaymentConfirmed--> ToBeConfirmed --MerchantConfirm--> Confirmed
//	Confirmed --Dispatch--> InDelivery --Deliver / TimeoutForceComplete--> Completed
//	PendingPayment --UserCancel / TimeoutExpire--> Cancelled
//	ToBeConfirmed --UserCancel / MerchantReject / MerchantCancel--> Cancelled
//	Confirmed --MerchantCancel--> Cancelled
//
// Cancelling a paid order marks it Refunded and asks for a gateway refund.
package order
