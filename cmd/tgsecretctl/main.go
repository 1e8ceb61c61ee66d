// tgsecretctl es el CLI de operación contra la API del backend: login
// admin, listados del dashboard y gestión de canales / configuración de IA.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	var v any
	if json.Unmarshal(body, &v) == nil {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func (c *client) get(path string) error {
	status, body, err := c.do("GET", path, nil)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("status=%d body=%s", status, string(body))
	}
	c.print(status, body)
	return nil
}

func main() {
	var (
		baseURL = envOr("TGSECRET_URL", "http://localhost:8080")
		token   = envOr("TGSECRET_TOKEN", "")
		out     = envOr("TGSECRET_OUT", "json")
	)

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}

	root := &cobra.Command{
		Use:   "tgsecretctl",
		Short: "CLI de operación del backend TgSecret",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cl.BaseURL = baseURL
			cl.Token = token
			cl.OutFormat = out
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env TGSECRET_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "access token admin (env TGSECRET_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// login admin: imprime el par de tokens
	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login admin (email + password); imprime accessToken/refreshToken",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			b, _ := json.Marshal(map[string]string{"email": loginEmail, "password": loginPassword})
			status, body, err := cl.do("POST", "/auth/admin/login", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("login falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email del admin")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password del admin")

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Identidad del token actual",
		RunE:  func(cmd *cobra.Command, args []string) error { return cl.get("/auth/me") },
	}

	var limit, offset int
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Listar media guardada",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.get(fmt.Sprintf("/admin/media?limit=%d&offset=%d", limit, offset))
		},
	}
	mediaCmd.Flags().IntVar(&limit, "limit", 50, "máximo de items")
	mediaCmd.Flags().IntVar(&offset, "offset", 0, "offset de paginación")

	storiesCmd := &cobra.Command{
		Use:   "stories",
		Short: "Listar stories descargadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.get(fmt.Sprintf("/admin/stories?limit=%d&offset=%d", limit, offset))
		},
	}
	storiesCmd.Flags().IntVar(&limit, "limit", 50, "máximo de items")
	storiesCmd.Flags().IntVar(&offset, "offset", 0, "offset de paginación")

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Listar sesiones de userbots",
		RunE:  func(cmd *cobra.Command, args []string) error { return cl.get("/admin/sessions") },
	}

	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Canales de suscripción forzada",
	}
	channelsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar canales",
		RunE:  func(cmd *cobra.Command, args []string) error { return cl.get("/admin/channels") },
	}
	var chChatID int64
	var chTitle, chUsername string
	channelsAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Agregar canal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if chChatID == 0 || chTitle == "" {
				return fmt.Errorf("--chat-id y --title son requeridos")
			}
			b, _ := json.Marshal(map[string]any{
				"chat_id":  chChatID,
				"title":    chTitle,
				"username": chUsername,
			})
			status, body, err := cl.do("POST", "/admin/channels", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("add falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	channelsAddCmd.Flags().Int64Var(&chChatID, "chat-id", 0, "chat id del canal")
	channelsAddCmd.Flags().StringVar(&chTitle, "title", "", "título")
	channelsAddCmd.Flags().StringVar(&chUsername, "username", "", "username público (opcional)")

	channelsRmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Borrar canal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/admin/channels/"+args[0], nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("rm falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	channelsCmd.AddCommand(channelsListCmd, channelsAddCmd, channelsRmCmd)

	aiCmd := &cobra.Command{
		Use:   "ai-config",
		Short: "Configuración de IA por usuario",
	}
	aiGetCmd := &cobra.Command{
		Use:   "get <userID>",
		Short: "Ver configuración (key enmascarada)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.get("/admin/ai-config/" + args[0])
		},
	}
	var aiProvider, aiModel, aiKey string
	aiSetCmd := &cobra.Command{
		Use:   "set <userID>",
		Short: "Setear configuración (la key viaja una sola vez)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if aiProvider == "" || aiKey == "" {
				return fmt.Errorf("--provider y --api-key son requeridos")
			}
			b, _ := json.Marshal(map[string]string{
				"provider": aiProvider,
				"model":    aiModel,
				"apiKey":   aiKey,
			})
			status, body, err := cl.do("PUT", "/admin/ai-config/"+args[0], b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("set falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	aiSetCmd.Flags().StringVar(&aiProvider, "provider", "", "proveedor (openai, anthropic, ...)")
	aiSetCmd.Flags().StringVar(&aiModel, "model", "", "modelo (opcional)")
	aiSetCmd.Flags().StringVar(&aiKey, "api-key", "", "API key en claro")
	aiCmd.AddCommand(aiGetCmd, aiSetCmd)

	root.AddCommand(loginCmd, meCmd, mediaCmd, storiesCmd, sessionsCmd, channelsCmd, aiCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
