package artifact

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/abhisek/guidekit/internal/extract"
)

// Render turns a payload into a standalone HTML document. Every field
// is escaped on output; the check question is additionally shipped to
// the inline script as a JSON string literal so the chat box can quote
// it back to the assistant verbatim.
func Render(p extract.Payload) string {
	title := htmlText(p.Title)
	concept := htmlText(p.Concept)
	example := htmlText(p.ExampleProblem)
	answer := htmlText(p.ExampleAnswer)
	question := htmlText(p.CheckQuestion)
	next := htmlText(p.NextHint)

	var points strings.Builder
	for _, kp := range p.KeyPoints {
		fmt.Fprintf(&points, "      <li>%s</li>\n", htmlText(kp))
	}

	questionJS, _ := json.Marshal(p.CheckQuestion)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`)
	b.WriteString(title)
	b.WriteString(`</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 0; background: #f4f6f8; color: #24292f; }
  main { max-width: 760px; margin: 0 auto; padding: 24px 16px 64px; }
  section { background: #fff; border: 1px solid #d8dee4; border-radius: 8px; padding: 16px 20px; margin-bottom: 16px; }
  h1 { font-size: 1.4em; margin: 0 0 4px; }
  h2 { font-size: 1.05em; margin: 0 0 8px; color: #57606a; }
  ul { margin: 0; padding-left: 20px; }
  li { margin: 4px 0; }
  #answer { display: none; margin-top: 8px; padding: 8px 12px; background: #f0fff4; border-left: 3px solid #2da44e; }
  button { background: #2da44e; color: #fff; border: 0; border-radius: 6px; padding: 8px 14px; cursor: pointer; font-size: 0.95em; }
  button.secondary { background: #57606a; }
  textarea { width: 100%; box-sizing: border-box; min-height: 72px; margin: 8px 0; border: 1px solid #d8dee4; border-radius: 6px; padding: 8px; font: inherit; }
  #chat-reply { white-space: pre-wrap; margin-top: 8px; color: #24292f; }
  footer { color: #57606a; font-size: 0.9em; }
</style>
</head>
<body>
<main>
  <section>
    <h1>`)
	b.WriteString(title)
	b.WriteString(`</h1>
  </section>
  <section>
    <h2>Concept</h2>
    <p>`)
	b.WriteString(concept)
	b.WriteString(`</p>
  </section>
  <section>
    <h2>Key points</h2>
    <ul>
`)
	b.WriteString(points.String())
	b.WriteString(`    </ul>
  </section>
  <section>
    <h2>Worked example</h2>
    <p>`)
	b.WriteString(example)
	b.WriteString(`</p>
    <button type="button" onclick="toggleAnswer()">Show answer</button>
    <div id="answer"><p>`)
	b.WriteString(answer)
	b.WriteString(`</p></div>
  </section>
  <section>
    <h2>Check yourself</h2>
    <p>`)
	b.WriteString(question)
	b.WriteString(`</p>
    <textarea id="chat-input" placeholder="Type your answer or ask a question..."></textarea>
    <button type="button" onclick="sendChat()">Send</button>
    <button type="button" class="secondary" onclick="nextPoint()">Next</button>
    <div id="chat-reply"></div>
  </section>
  <footer>`)
	b.WriteString(next)
	b.WriteString(`</footer>
</main>
<script>
var sessionID = "`)
	b.WriteString(SessionIDPlaceholder)
	b.WriteString(`";
var checkQuestion = `)
	b.Write(questionJS)
	b.WriteString(`;
function toggleAnswer() {
  var el = document.getElementById("answer");
  el.style.display = el.style.display === "block" ? "none" : "block";
}
function sendChat() {
  var input = document.getElementById("chat-input");
  var text = input.value.trim();
  if (!text) { return; }
  var reply = document.getElementById("chat-reply");
  reply.textContent = "...";
  fetch("/guide/sessions/" + sessionID + "/chat", {
    method: "POST",
    headers: { "Content-Type": "application/json" },
    body: JSON.stringify({ message: text, check_question: checkQuestion })
  }).then(function (r) { return r.json(); }).then(function (data) {
    reply.textContent = data.answer || data.error || "";
  }).catch(function (err) {
    reply.textContent = "Request failed: " + err;
  });
}
function nextPoint() {
  fetch("/guide/sessions/" + sessionID + "/next", { method: "POST" })
    .then(function (r) { return r.json(); })
    .then(function (data) {
      if (data.html) { document.open(); document.write(data.html); document.close(); }
    });
}
</script>
</body>
</html>
`)
	return b.String()
}

// BindSessionID substitutes the session placeholder in rendered HTML.
func BindSessionID(doc, sessionID string) string {
	return strings.ReplaceAll(doc, SessionIDPlaceholder, sessionID)
}

func htmlText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
