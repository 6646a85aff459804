package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abarros/contact-sync/internal/syncclient"
	"github.com/abarros/contact-sync/internal/syncclient/remote"
)

func main() {
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	backend := remote.New(apiURL)
	monitor := syncclient.NewMonitor(backend)
	navigator := syncclient.NewNavigator(backend, monitor, syncclient.DefaultLogoutDelay)
	gateway := syncclient.NewGateway(backend, monitor)

	navigator.OnChange(func() {
		render(navigator)
	})

	navigator.Start()
	monitor.Start()
	defer monitor.Stop()
	defer navigator.Stop()

	render(navigator)
	repl(backend, gateway, navigator)
}

func render(n *syncclient.Navigator) {
	switch n.Route() {
	case syncclient.RouteLoading:
		fmt.Println("-- loading --")
	case syncclient.RouteSignIn:
		fmt.Println("-- signed out; use register/login --")
	case syncclient.RouteContacts:
		if err := n.SubscriptionError(); err != nil {
			fmt.Printf("-- contact feed down: %v (use refresh) --\n", err)
			return
		}
		contacts := n.View()
		fmt.Printf("-- %d contact(s) --\n", len(contacts))
		for _, c := range contacts {
			fmt.Printf("  %s  %-20s %-25s %s (age %d)\n", c.ID, c.Name, c.Email, c.Phone, c.Age)
		}
	}
}

func repl(backend *remote.Backend, gateway *syncclient.Gateway, navigator *syncclient.Navigator) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			fmt.Print("> ")
			continue
		}

		var err error
		switch args[0] {
		case "register":
			if len(args) != 3 {
				err = fmt.Errorf("usage: register <email> <password>")
				break
			}
			err = backend.Register(ctx, args[1], args[2])
		case "login":
			if len(args) != 3 {
				err = fmt.Errorf("usage: login <email> <password>")
				break
			}
			err = backend.Login(ctx, args[1], args[2])
		case "logout":
			err = backend.Logout(ctx)
		case "add":
			if len(args) != 5 {
				err = fmt.Errorf("usage: add <name> <email> <phone> <age>")
				break
			}
			var age int
			if age, err = strconv.Atoi(args[4]); err != nil {
				err = fmt.Errorf("age must be a number")
				break
			}
			var id string
			if id, err = gateway.Add(ctx, args[1], args[2], args[3], age); err == nil {
				fmt.Printf("created %s\n", id)
			}
		case "update":
			if len(args) != 6 {
				err = fmt.Errorf("usage: update <id> <name> <email> <phone> <age>")
				break
			}
			var age int
			if age, err = strconv.Atoi(args[5]); err != nil {
				err = fmt.Errorf("age must be a number")
				break
			}
			err = gateway.Update(ctx, args[1], args[2], args[3], args[4], age)
		case "delete":
			if len(args) != 2 {
				err = fmt.Errorf("usage: delete <id>")
				break
			}
			err = gateway.Delete(ctx, args[1])
		case "refresh":
			err = navigator.Refresh()
		case "quit", "exit":
			return
		default:
			fmt.Println("commands: register login logout add update delete refresh quit")
		}

		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		fmt.Print("> ")
	}
}
