package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"miniverse/domain"
	"miniverse/util"
)

// handleWhoami shows the current session
func (h *Handler) handleWhoami(args []string) error {
	if !h.session.LoggedIn() {
		if h.output.IsJSON() {
			h.output.JSON(WhoamiResponse{LoggedIn: false})
		} else {
			h.output.Println("Not logged in.")
		}
		return nil
	}

	resp := WhoamiResponse{
		Username: h.session.Username(),
		LoggedIn: true,
	}
	if exp := h.session.TokenExpiry(); !exp.IsZero() {
		resp.Expires = exp.Local().Format(util.DateTimeFormat())
	}

	if h.output.IsJSON() {
		h.output.JSON(resp)
	} else {
		h.output.Print("Logged in as @%s\n", resp.Username)
		if resp.Expires != "" {
			h.output.Print("Session valid until %s\n", resp.Expires)
		}
	}
	return nil
}

// handleLogin signs in, reading the password from stdin so it never lands in
// shell history or process lists.
func (h *Handler) handleLogin(args []string) error {
	if len(args) < 1 {
		err := fmt.Errorf("usage: login <email> -")
		h.output.Error(err)
		return err
	}
	email := args[0]

	reader := bufio.NewReader(h.in)
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		h.output.Error(fmt.Errorf("could not read password from stdin: %w", err))
		return err
	}
	password = strings.TrimRight(password, "\r\n")

	req := domain.LoginRequest{Email: email, Password: password}
	if err := domain.ValidateLogin(req); err != nil {
		h.output.Error(err)
		return err
	}

	if err := h.session.Login(context.Background(), req); err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		h.output.JSON(WhoamiResponse{Username: h.session.Username(), LoggedIn: true})
	} else {
		h.output.Success("Logged in as @%s\n", h.session.Username())
	}
	return nil
}

// handleLogout clears the stored credential
func (h *Handler) handleLogout(args []string) error {
	if err := h.session.Logout(); err != nil {
		h.output.Error(err)
		return err
	}
	if h.output.IsJSON() {
		h.output.JSON(WhoamiResponse{LoggedIn: false})
	} else {
		h.output.Success("Logged out.\n")
	}
	return nil
}
