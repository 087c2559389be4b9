package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/csrf"
	"github.com/poslugy/marketplace/app/cmd"
	"github.com/poslugy/marketplace/app/configs"
	"github.com/poslugy/marketplace/app/routes"
	"github.com/poslugy/marketplace/app/tasks"
	"github.com/poslugy/marketplace/app/utils/sessions"
)

func main() {
	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("session keys: %v (run `generate-keys` and fill .env)", err)
	}
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	taskClient := tasks.NewClient(env.RedisAddr)
	defer taskClient.Close()

	router := routes.NewRouter(db, sessionStore, taskClient)

	csrfProtect := csrf.Protect([]byte(env.CSRFKey), csrf.Secure(false))

	server := http.Server{
		Addr:    env.Port,
		Handler: csrfProtect(router),
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}
}
