package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v3"

	"github.com/Mutu-s/MonFair-sub001/internal/config"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

func runToken(_ context.Context, cmd *cli.Command) error {
	token, err := issueToken(cmd.String("secret"), cmd.Duration("ttl"), cmd.String("address"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func issueToken(secret string, ttl time.Duration, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid address %q", address)
	}
	jwtService := services.NewJWTService(&config.Config{JWTSecret: secret, JWTTTL: ttl})
	if !jwtService.Enabled() {
		return "", errors.New("no signing secret, set --secret or JWT_SECRET")
	}
	return jwtService.GenerateToken(address)
}
