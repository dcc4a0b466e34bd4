package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/meddlesome/hoymiles-mea-tou/pkg/hasher"
)

// KeygenCommand prints a new API key and the hash to put in API_KEY_HASH.
func KeygenCommand(ctx *cli.Context) error {
	key, err := hasher.GenerateKey(ctx.Int("length"))
	if err != nil {
		return err
	}
	hash, err := hasher.HashKey(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.App.Writer, "API key:      %s\nAPI_KEY_HASH: %s\n", key, hash)
	return err
}
