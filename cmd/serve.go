package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/scorelang/scorelang/constants"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a compile endpoint over HTTP",
	Long:  `Serves POST /compile: score source in, MIDI bytes out.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type compileRequestBody struct {
	Source string `json:"source"`
	PPQ    int    `json:"ppq"`
}

type compileErrorBody struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

// HandleCompile is the POST /compile handler. Exported so end-to-end tests
// can drive it through httptest.
func HandleCompile(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	var input compileRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		http.Error(w, "request body must be JSON with a source field", http.StatusBadRequest)
		return
	}
	if input.Source == "" {
		http.Error(w, "source must not be empty", http.StatusBadRequest)
		return
	}
	if input.PPQ == 0 {
		input.PPQ = constants.DefaultPPQ
	}

	s, warnings, err := Compile(input.Source, input.PPQ)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(compileErrorBody{Error: err.Error(), Warnings: warnings})
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("X-Warning-Count", strconv.Itoa(len(warnings)))
	s.WriteTo(w)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/compile", HandleCompile).Methods("POST")
	handler := cors.Default().Handler(router)
	fmt.Printf("listening on :%v\n", servePort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", servePort), handler))
}
