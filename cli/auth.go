package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/auth"
	"github.com/yhkl-dev/qqm/output"
)

// CookieEnv holds a Cookie header used by `auth login` when no flag is given
const CookieEnv = "QQM_COOKIE"

func (r *runner) newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage QQ Music credentials",
	}
	cmd.AddCommand(r.newLoginCommand(), r.newCheckCommand(), r.newLogoutCommand(), r.newProfilesCommand())
	return cmd
}

func (r *runner) newLoginCommand() *cobra.Command {
	var cookie, cookieFile string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store cookies copied from a logged-in browser session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			cookies, source, err := readCookies(cookie, cookieFile)
			if err != nil {
				return withCode(AuthError, err)
			}
			if err := a.Auth.Login(cookies, source); err != nil {
				return withCode(AuthError, err)
			}
			return a.Printer.Print(&output.Login{
				Notice:        output.Notice{Message: "Login successful (profile: " + a.Auth.Profile() + ")"},
				Authenticated: true,
				Profile:       a.Auth.Profile(),
				Source:        source,
			})
		},
	}
	cmd.Flags().StringVar(&cookie, "cookie", "", "Cookie header value from y.qq.com")
	cmd.Flags().StringVar(&cookieFile, "cookie-file", "", "Netscape cookies.txt export")
	cmd.MarkFlagsMutuallyExclusive("cookie", "cookie-file")
	return cmd
}

// readCookies picks the first cookie source given: flag, file, then environment
func readCookies(header, file string) (auth.Cookies, string, error) {
	switch {
	case header != "":
		return auth.ParseCookieHeader(header), "cookie header", nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to open cookie file")
		}
		defer f.Close()
		cookies, err := auth.ParseNetscape(f)
		return cookies, file, err
	}
	if env := os.Getenv(CookieEnv); env != "" {
		return auth.ParseCookieHeader(env), CookieEnv, nil
	}
	return nil, "", auth.ErrNoSessionKey
}

func (r *runner) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			result := a.Auth.Check(cmd.Context(), a.Library)
			if err := a.Printer.Print(output.NewAuthCheck(a.Auth.Profile(), result)); err != nil {
				return err
			}
			if !result.Valid {
				return &exitError{status: ExitAuth}
			}
			return nil
		},
	}
}

func (r *runner) newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.Auth.Logout(); err != nil {
				return withCode(AuthError, err)
			}
			return a.Printer.Print(&output.Logout{
				Notice:  output.Notice{Message: "Logged out (profile: " + a.Auth.Profile() + ")"},
				Profile: a.Auth.Profile(),
			})
		},
	}
}

func (r *runner) newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored credential profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			names, err := a.Store.Profiles()
			if err != nil {
				return withCode(AuthError, err)
			}
			list := &output.ProfileList{Profiles: []output.ProfileEntry{}, Current: a.Auth.Profile()}
			for _, name := range names {
				list.Profiles = append(list.Profiles, output.ProfileEntry{Name: name, Active: name == a.Auth.Profile()})
			}
			return a.Printer.Print(list)
		},
	}
}
