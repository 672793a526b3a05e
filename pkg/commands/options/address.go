// Package options defines shared flag helpers for CLI commands.
package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrNoAddress is returned when neither --address nor the config names a wallet.
var ErrNoAddress = errors.New("no wallet address, pass --address or set address in .tokenbar.yaml")

// AddressOptions selects the wallet address a command works on.
type AddressOptions struct {
	Address string
}

// AddAddressArgs wires the --address flag on the provided command.
func AddAddressArgs(cmd *cobra.Command, o *AddressOptions) {
	cmd.PersistentFlags().StringVarP(&o.Address, "address", "a", "",
		"Wallet address, defaults to the configured address.")
}

// Resolve returns the flag value or fallback.
func (o *AddressOptions) Resolve(fallback string) (string, error) {
	if o.Address != "" {
		return o.Address, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoAddress
}

// IDOptions
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show asset and transaction ids.")
}
