// Package customer holds the customer-owned inputs to an order: address book
// entries and shopping cart lines. Orders copy what they need from these at
// submission and never refer back to them.
package customer
