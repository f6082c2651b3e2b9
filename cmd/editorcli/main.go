// Package main provides the editor CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/likelive/internal/api/connect"
	editorv1 "github.com/osa030/likelive/internal/api/editorv1"
)

var (
	app    = kingpin.New("likelive-editorcli", "LikeLive post editor client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "API token (or set LIKELIVE_API_TOKEN env)").Envar("LIKELIVE_API_TOKEN").String()

	// open command
	openCmd  = app.Command("open", "Open an editing session")
	openBlog = openCmd.Arg("blog-id", "Existing post to edit (omit for a new post)").String()

	// show command
	showCmd     = app.Command("show", "Show a session")
	showSession = showCmd.Arg("session-id", "Session ID").Required().String()

	// add-main command
	addMainCmd     = app.Command("add-main", "Add a batch of main set tracks")
	addMainSession = addMainCmd.Arg("session-id", "Session ID").Required().String()

	// add-encore command
	addEncoreCmd     = app.Command("add-encore", "Add a batch of tracks to an encore section")
	addEncoreSession = addEncoreCmd.Arg("session-id", "Session ID").Required().String()
	addEncoreSection = addEncoreCmd.Arg("section", "Encore section index (0-based)").Required().Int32()

	// add-section command
	addSectionCmd     = app.Command("add-section", "Add an encore section")
	addSectionSession = addSectionCmd.Arg("session-id", "Session ID").Required().String()

	// remove-section command
	removeSectionCmd     = app.Command("remove-section", "Remove the last encore section")
	removeSectionSession = removeSectionCmd.Arg("session-id", "Session ID").Required().String()

	// set-track command
	setTrackCmd     = app.Command("set-track", "Set a track name")
	setTrackSession = setTrackCmd.Arg("session-id", "Session ID").Required().String()
	setTrackIndex   = setTrackCmd.Arg("index", "Track index (0-based)").Required().Int32()
	setTrackName    = setTrackCmd.Arg("name", "Track name").Default("").String()
	setTrackEncore  = setTrackCmd.Flag("encore", "Encore section index (omit for the main set)").Default("-1").Int32()

	// title command
	titleCmd     = app.Command("title", "Set the post title")
	titleSession = titleCmd.Arg("session-id", "Session ID").Required().String()
	titleValue   = titleCmd.Arg("title", "Title").Default("").String()

	// category command
	categoryCmd     = app.Command("category", "Set the post category")
	categorySession = categoryCmd.Arg("session-id", "Session ID").Required().String()
	categoryValue   = categoryCmd.Arg("category", "Category (DIARY, REPORT, ...)").Required().String()

	// content command
	contentCmd     = app.Command("content", "Replace the post body with a JSON document")
	contentSession = contentCmd.Arg("session-id", "Session ID").Required().String()
	contentFile    = contentCmd.Arg("file", "JSON file").Required().ExistingFile()

	// artist commands
	artistCmd           = app.Command("artist", "Manage related artists")
	artistAddCmd        = artistCmd.Command("add", "Tag an artist")
	artistAddSession    = artistAddCmd.Arg("session-id", "Session ID").Required().String()
	artistAddID         = artistAddCmd.Arg("artist-id", "Artist ID").Required().String()
	artistRemoveCmd     = artistCmd.Command("remove", "Untag an artist")
	artistRemoveSession = artistRemoveCmd.Arg("session-id", "Session ID").Required().String()
	artistRemoveID      = artistRemoveCmd.Arg("artist-id", "Artist ID").Required().String()

	// draft command
	draftCmd     = app.Command("draft", "Save the post as a draft")
	draftSession = draftCmd.Arg("session-id", "Session ID").Required().String()

	// publish command
	publishCmd     = app.Command("publish", "Publish the post")
	publishSession = publishCmd.Arg("session-id", "Session ID").Required().String()

	// discard command
	discardCmd     = app.Command("discard", "Discard a session without saving")
	discardSession = discardCmd.Arg("session-id", "Session ID").Required().String()

	// search-artists command
	searchCmd   = app.Command("search-artists", "Search artists by name").Alias("search")
	searchQuery = searchCmd.Arg("query", "Artist name").Required().String()
	searchLimit = searchCmd.Flag("limit", "Maximum results").Default("10").Int32()

	// suggest command
	suggestCmd    = app.Command("suggest", "Suggest track names of an artist")
	suggestArtist = suggestCmd.Arg("artist", "Artist name").Required().String()
	suggestLimit  = suggestCmd.Flag("limit", "Maximum results").Default("20").Int32()

	// rules command
	rulesCmd = app.Command("rules", "List active submission rules")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := editorv1.NewEditorServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	// Execute command
	switch command {
	case openCmd.FullCommand():
		resp, err := client.OpenSession(ctx, newRequest(&editorv1.OpenSessionRequest{BlogId: *openBlog}))
		printSessionResponse(resp, err)
	case showCmd.FullCommand():
		resp, err := client.GetSession(ctx, sessionRequest(*showSession))
		printSessionResponse(resp, err)
	case addMainCmd.FullCommand():
		resp, err := client.AddMainTracks(ctx, sessionRequest(*addMainSession))
		printSessionResponse(resp, err)
	case addEncoreCmd.FullCommand():
		resp, err := client.AddEncoreTracks(ctx, newRequest(&editorv1.AddEncoreTracksRequest{
			SessionId: *addEncoreSession,
			Section:   *addEncoreSection,
		}))
		printSessionResponse(resp, err)
	case addSectionCmd.FullCommand():
		resp, err := client.AddEncoreSection(ctx, sessionRequest(*addSectionSession))
		printSessionResponse(resp, err)
	case removeSectionCmd.FullCommand():
		resp, err := client.RemoveEncoreSection(ctx, sessionRequest(*removeSectionSession))
		printSessionResponse(resp, err)
	case setTrackCmd.FullCommand():
		resp, err := client.SetTrackName(ctx, newRequest(&editorv1.SetTrackNameRequest{
			SessionId: *setTrackSession,
			Encore:    *setTrackEncore >= 0,
			Section:   max(*setTrackEncore, 0),
			Index:     *setTrackIndex,
			TrackName: *setTrackName,
		}))
		printSessionResponse(resp, err)
	case titleCmd.FullCommand():
		resp, err := client.SetTitle(ctx, newRequest(&editorv1.SetTitleRequest{
			SessionId: *titleSession,
			Title:     *titleValue,
		}))
		printSessionResponse(resp, err)
	case categoryCmd.FullCommand():
		resp, err := client.SetCategory(ctx, newRequest(&editorv1.SetCategoryRequest{
			SessionId: *categorySession,
			Category:  strings.ToUpper(*categoryValue),
		}))
		printSessionResponse(resp, err)
	case contentCmd.FullCommand():
		setContent(ctx, client, *contentSession, *contentFile)
	case artistAddCmd.FullCommand():
		resp, err := client.AddArtist(ctx, newRequest(&editorv1.ArtistRequest{
			SessionId: *artistAddSession,
			ArtistId:  *artistAddID,
		}))
		printSessionResponse(resp, err)
	case artistRemoveCmd.FullCommand():
		resp, err := client.RemoveArtist(ctx, newRequest(&editorv1.ArtistRequest{
			SessionId: *artistRemoveSession,
			ArtistId:  *artistRemoveID,
		}))
		printSessionResponse(resp, err)
	case draftCmd.FullCommand():
		resp, err := client.SaveDraft(ctx, sessionRequest(*draftSession))
		printSubmitResponse(resp, err)
	case publishCmd.FullCommand():
		resp, err := client.Publish(ctx, sessionRequest(*publishSession))
		printSubmitResponse(resp, err)
	case discardCmd.FullCommand():
		discard(ctx, client, *discardSession)
	case searchCmd.FullCommand():
		searchArtists(ctx, client, *searchQuery, *searchLimit)
	case suggestCmd.FullCommand():
		suggestTracks(ctx, client, *suggestArtist, *suggestLimit)
	case rulesCmd.FullCommand():
		listRules(ctx, client)
	}
}

// newRequest wraps msg and attaches the API token.
func newRequest[T any](msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if *token != "" {
		req.Header().Set(apiconnect.APITokenHeader, *token)
	}
	return req
}

func sessionRequest(sessionID string) *connect.Request[editorv1.SessionRequest] {
	return newRequest(&editorv1.SessionRequest{SessionId: sessionID})
}

func setContent(ctx context.Context, client *editorv1.EditorServiceClient, sessionID, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	resp, err := client.SetContent(ctx, newRequest(&editorv1.SetContentRequest{
		SessionId: sessionID,
		Content:   data,
	}))
	printSessionResponse(resp, err)
}

func discard(ctx context.Context, client *editorv1.EditorServiceClient, sessionID string) {
	resp, err := client.DiscardSession(ctx, sessionRequest(sessionID))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Msg.Success {
		fmt.Println("Session discarded")
	} else {
		fmt.Printf("Failed: %s\n", resp.Msg.Message)
	}
}

func searchArtists(ctx context.Context, client *editorv1.EditorServiceClient, query string, limit int32) {
	resp, err := client.SearchArtists(ctx, newRequest(&editorv1.SearchArtistsRequest{
		Query: query,
		Limit: limit,
	}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Artists (%d):\n", len(resp.Msg.Artists))
	for _, a := range resp.Msg.Artists {
		fmt.Printf("  %s: %s (popularity: %d)\n", a.Id, a.Name, a.Popularity)
		if len(a.Genres) > 0 {
			fmt.Printf("    Genres: %s\n", strings.Join(a.Genres, ", "))
		}
	}
}

func suggestTracks(ctx context.Context, client *editorv1.EditorServiceClient, artistName string, limit int32) {
	resp, err := client.SuggestTracks(ctx, newRequest(&editorv1.SuggestTracksRequest{
		Artist: artistName,
		Limit:  limit,
	}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tracks (%d):\n", len(resp.Msg.TrackNames))
	for i, name := range resp.Msg.TrackNames {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
}

func listRules(ctx context.Context, client *editorv1.EditorServiceClient) {
	resp, err := client.ListRules(ctx, newRequest(&editorv1.ListRulesRequest{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Active Rules:")
	for _, r := range resp.Msg.Rules {
		fmt.Printf("  %-22s - %s [codes: %s]\n", r.Name, r.Description, strings.Join(r.Codes, ", "))
	}
}

func printSessionResponse(resp *connect.Response[editorv1.SessionResponse], err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printSession(resp.Msg.Session)
}

func printSubmitResponse(resp *connect.Response[editorv1.SubmitResponse], err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Msg.Accepted {
		fmt.Printf("Saved: blog %s\n", resp.Msg.BlogId)
		return
	}

	fmt.Println("Rejected:")
	for i, code := range resp.Msg.Codes {
		msg := ""
		if i < len(resp.Msg.Messages) {
			msg = resp.Msg.Messages[i]
		}
		fmt.Printf("  %s: %s\n", code, msg)
	}
	printSession(resp.Msg.Session)
	os.Exit(2)
}

func printSession(s *editorv1.Session) {
	if s == nil {
		return
	}

	fmt.Println("\n=== EDITING SESSION ===")
	fmt.Printf("Session ID: %s\n", s.SessionId)
	fmt.Printf("Mode: %s\n", s.Mode)
	if s.BlogId != "" {
		fmt.Printf("Blog ID: %s (%s)\n", s.BlogId, s.Status)
	}
	title := s.Title
	if s.TitleError {
		title += "  <- invalid"
	}
	fmt.Printf("Title: %s\n", title)
	fmt.Printf("Category: %s\n", s.Category)
	fmt.Printf("Artists: %v\n", s.ArtistIds)
	fmt.Printf("Can save draft: %v\n", s.CanSaveDraft)

	sl := s.Setlist
	if sl == nil {
		return
	}

	fmt.Println("\nMain Set:")
	printTracks(sl.MainSet, sl.MainErrors)
	for i, section := range sl.EncoreSections {
		var errs []bool
		empty := false
		if i < len(sl.EncoreErrors) {
			errs = sl.EncoreErrors[i].Tracks
			empty = sl.EncoreErrors[i].Empty
		}
		header := fmt.Sprintf("\nEncore %d:", i+1)
		if empty {
			header += "  <- needs at least one track"
		}
		fmt.Println(header)
		printTracks(section, errs)
	}

	fmt.Printf("\nCan add main tracks: %v\n", sl.CanAddMainTracks)
	fmt.Printf("Can add encore section: %v\n", sl.CanAddEncoreSection)
	fmt.Printf("Can remove encore section: %v\n", sl.CanRemoveEncoreSection)
}

func printTracks(tracks []editorv1.Track, errs []bool) {
	for i, t := range tracks {
		mark := " "
		if i < len(errs) && errs[i] {
			mark = "!"
		}
		fmt.Printf(" %s %2d. %s\n", mark, t.TrackNumber, t.TrackName)
	}
}
