// Package kernel holds value objects shared by every aggregate of the fulfillment domain:
// Money for prices and totals, and Clock as the single source of "now".
package kernel
