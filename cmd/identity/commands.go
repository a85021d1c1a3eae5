package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/session"
)

type command struct {
	help string
	run  func(ctx context.Context, a *app, args []string) error
}

var commandOrder = []string{"signup", "signin", "signout", "profile", "update", "delete", "token", "status", "verify"}

var commands = map[string]command{
	"signup": {
		help: "[email password]  create an account (anonymous without arguments)",
		run: func(ctx context.Context, a *app, args []string) error {
			switch len(args) {
			case 0:
				if err := a.client.SignUpAnonymously(ctx); err != nil {
					return err
				}
			case 2:
				if err := a.client.SignUp(ctx, args[0], args[1]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("signup takes no arguments or <email> <password>")
			}
			return printJSON(os.Stdout, a.client.User())
		},
	},
	"signin": {
		help: "email password     sign in with email and password",
		run: func(ctx context.Context, a *app, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("signin takes <email> <password>")
			}
			if err := a.client.SignIn(ctx, args[0], args[1]); err != nil {
				return err
			}
			return printJSON(os.Stdout, a.client.User())
		},
	},
	"signout": {
		help: "                   forget the stored session",
		run: func(ctx context.Context, a *app, _ []string) error {
			return a.client.SignOut(ctx)
		},
	},
	"profile": {
		help: "                   print the signed-in user's profile",
		run: func(ctx context.Context, a *app, _ []string) error {
			if err := a.client.RefreshProfile(ctx); err != nil {
				return err
			}
			return printJSON(os.Stdout, a.client.User())
		},
	},
	"update": {
		help: "-name N -photo URL change display name and/or photo",
		run: func(ctx context.Context, a *app, args []string) error {
			fs := flag.NewFlagSet("update", flag.ContinueOnError)
			name := fs.String("name", "", "display name")
			photo := fs.String("photo", "", "photo URL")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if *name == "" && *photo == "" {
				return fmt.Errorf("update needs -name and/or -photo")
			}
			if err := a.client.UpdateProfile(ctx, *name, *photo); err != nil {
				return err
			}
			return printJSON(os.Stdout, a.client.User())
		},
	},
	"delete": {
		help: "                   delete the signed-in account",
		run: func(ctx context.Context, a *app, _ []string) error {
			return a.client.DeleteAccount(ctx)
		},
	},
	"token": {
		help: "                   print a valid access token, refreshing if needed",
		run: func(ctx context.Context, a *app, _ []string) error {
			token, err := a.client.Session().GetValidAccessToken(ctx)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	},
	"status": {
		help: "                   show the stored session without contacting the backend",
		run: func(_ context.Context, a *app, _ []string) error {
			creds := a.client.Session().Credentials()
			status := map[string]any{"signed_in": creds.RefreshToken != ""}
			if !creds.TokenExpiry.IsZero() {
				status["token_expiry"] = creds.TokenExpiry.Format(time.RFC3339)
				status["token_valid"] = creds.Valid(time.Now())
			}
			if claims, err := session.InspectToken(creds.AccessToken); err == nil {
				status["uid"] = claims.Subject
				status["email"] = claims.Email
				status["issuer"] = claims.Issuer
			}
			return printJSON(os.Stdout, status)
		},
	},
	"verify": {
		help: "                   verify the access token's signature (needs FIREBASE_PROJECT_ID)",
		run: func(ctx context.Context, a *app, _ []string) error {
			v, err := identity.NewVerifier(ctx, a.config.GetProjectID())
			if err != nil {
				return err
			}
			verified, err := a.client.VerifyCurrentToken(ctx, v)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, verified)
		},
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
