package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWrapChatTextSingleLine(t *testing.T) {
	msg := "user: " + strings.Repeat("a", 52) // exactly 58
	require.Len(t, msg, 58)

	chunks := wrapChatText(msg, 58)
	require.Equal(t, []string{msg}, chunks)
}

func TestWrapChatTextTwoLines(t *testing.T) {
	msg := "user: " + strings.Repeat("a", 53) // 59 characters
	require.Len(t, msg, 59)

	chunks := wrapChatText(msg, 58)
	require.Len(t, chunks, 2)
}

func TestWrapChatTextKeepsWords(t *testing.T) {
	chunks := wrapChatText("aaa bbb ccc", 7)
	require.Equal(t, []string{"aaa bbb", "ccc"}, chunks)
}

func TestRenderChatLinesOwnerOnNamePrefixLine(t *testing.T) {
	long := strings.Repeat("a", 53) // "user: " + 53 = 59, wraps to two rows
	lines := RenderChatLines([]ChatMessage{{Name: "user", Role: RoleGuest, Text: long}})
	require.Len(t, lines, 2)

	// Index 0 is the bottom row: the overflow chunk, no owner. The owner
	// rides on the chunk that actually opens with "user: " so the colored
	// name overlay lands on the prefix, not on message text.
	require.Nil(t, lines[0].Owner)
	require.NotNil(t, lines[1].Owner)
	require.Equal(t, "user", lines[1].Owner.Name)
	require.True(t, strings.HasPrefix(lines[1].Text, "user:"))
}

func TestRenderChatLinesShortMessage(t *testing.T) {
	lines := RenderChatLines([]ChatMessage{{Name: "user", Role: RoleGuest, Text: "yo"}})
	require.Len(t, lines, 1)
	require.Equal(t, "user: yo", lines[0].Text)
	require.NotNil(t, lines[0].Owner)
}

func TestRenderChatLinesBudget(t *testing.T) {
	var messages []ChatMessage
	for i := 0; i < 20; i++ {
		messages = append(messages, ChatMessage{Name: "u", Role: RoleGuest, Text: string(rune('a' + i))})
	}
	lines := RenderChatLines(messages)
	require.Len(t, lines, 13)

	// Newest message (last on the wire) renders first.
	require.Equal(t, "u: t", lines[0].Text)
}

func TestChatMessagesParsing(t *testing.T) {
	const doc = `<messages>
	<message><username>DJProfessorK</username><text>yo <b>tokyo</b>!</text></message>
	<message><username><font color="#00ffff">gumdrop</font></username><text>hey</text></message>
	<message><username>anon</username><text>first &amp; last</text></message>
	</messages>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/messages.xml", r.URL.Path)
		w.Write([]byte(doc))
	}))
	defer server.Close()

	messages, err := NewRadioClient(server.URL).ChatMessages()
	require.NoError(t, err)
	require.Len(t, messages, 3)

	require.Equal(t, ChatMessage{Name: "DJProfessorK", Role: RoleBroadcaster, Text: "yo tokyo!"}, messages[0])
	require.Equal(t, ChatMessage{Name: "gumdrop", Role: RoleRegistered, Text: "hey"}, messages[1])
	require.Equal(t, ChatMessage{Name: "anon", Role: RoleGuest, Text: "first & last"}, messages[2])
}

func TestListenerCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<users><user>a</user><user>b</user><user>c</user></users>"))
	}))
	defer server.Close()

	count, err := NewRadioClient(server.URL).ListenerCount()
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestBroadcastMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "known avatar",
			body: "<data><message>the beat goes on</message><avatar>djprofessork</avatar></data>",
			want: "DJ Professor K: the beat goes on",
		},
		{
			name: "unknown avatar",
			body: "<data><message>hello</message><avatar>whoever</avatar></data>",
			want: "hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			msg, err := NewRadioClient(server.URL).BroadcastMessage()
			require.NoError(t, err)
			require.Equal(t, tt.want, msg)
		})
	}
}

func TestTrackList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tracks[0] = \"Funky Dealer\";\ntracks[1] = \"Sweet Soul Brother\";\n"))
	}))
	defer server.Close()

	client := NewRadioClient(server.URL)
	tracks, err := client.TrackList()
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Equal(t, "Funky Dealer", tracks[0].Name)
	require.Equal(t, server.URL+"/audioplayer/audio/Funky Dealer.mp3", tracks[0].URL)
}

func TestPostChat(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/save.php", r.URL.Path)
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"chatmessage": r.PostForm.Get("chatmessage"),
			"username":    r.PostForm.Get("username"),
			"password":    r.PostForm.Get("password"),
		}
	}))
	defer server.Close()

	err := NewRadioClient(server.URL).PostChat("yo", "beat", "hunter2")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"chatmessage": "yo", "username": "beat", "password": "hunter2"}, got)
}

// A failed fetch keeps the previous chat snapshot instead of clearing it.
func TestChatPollerKeepsSnapshotOnFailure(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		failing := fail
		mu.Unlock()
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<message><username>anon</username><text>hi</text></message>"))
	}))
	defer server.Close()

	state := NewUIState(5)
	ctl := NewControl()
	var wg sync.WaitGroup
	startChatPoller(NewRadioClient(server.URL), state, ctl, 5*time.Millisecond, &wg)

	require.Eventually(t, func() bool {
		return len(state.ChatLines()) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	fail = true
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	require.Len(t, state.ChatLines(), 1)

	ctl.Stop()
	wg.Wait()
}
