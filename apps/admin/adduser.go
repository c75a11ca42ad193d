package main

import (
	"context"
	"fmt"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// addUser creates an admin account, which has no profile.
func (cli *commandLine) addUser(email, name, pwd string) error {
	nu := user.NewUser{Email: email, Name: name, Role: user.RoleAdmin, Password: pwd}
	nu.Clean()
	if err := core.ValidateStruct(cli.validate, cli.translator, nu); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Printf("admin %s created (id %d)\n", usr.Email, usr.ID)
	return nil
}
