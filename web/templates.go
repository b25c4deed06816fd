package web

import "html/template"

// All pages share one embedded template set so the share server ships as a
// single binary with no asset directory.
const pageTemplates = `
{{define "head"}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · miniverse</title>
<style>
  body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem;
         font-family: Georgia, serif; line-height: 1.6; color: #222; }
  header { border-bottom: 1px solid #ddd; margin-bottom: 1.5rem; padding-bottom: .5rem; }
  header a { color: #5b21b6; text-decoration: none; font-weight: bold; }
  .meta { color: #777; font-size: .85rem; }
  .post { margin-bottom: 2rem; }
  .post h2 a { color: #222; text-decoration: none; }
  .sealed { background: #fdf6e3; border: 1px solid #e6d9a8; padding: 1rem;
            border-radius: 4px; color: #8a6d1d; }
  .pager a { margin-right: 1rem; color: #5b21b6; }
  footer { margin-top: 3rem; color: #999; font-size: .8rem;
           border-top: 1px solid #ddd; padding-top: .5rem; }
</style>
</head>
<body>
<header><a href="/">miniverse</a> <span class="meta">shared posts</span></header>
{{end}}

{{define "foot"}}
<footer>miniverse v{{.Version}} · <a href="/feed.rss">rss</a></footer>
</body>
</html>
{{end}}

{{define "index.html"}}
{{template "head" .}}
{{range .Posts}}
<div class="post">
  <h2><a href="/post/{{.Id}}">{{.Title}}</a></h2>
  <div class="meta">@{{.Author}} · {{.TimeAgo}} · {{.ReadTime}} min read · ⭐ {{.Likes}} · 💬 {{.Comments}}</div>
</div>
{{else}}
<p>Nothing shared yet.</p>
{{end}}
<div class="pager">
  {{if .HasPrev}}<a href="/?page={{.PrevPage}}">← newer</a>{{end}}
  {{if .HasNext}}<a href="/?page={{.NextPage}}">older →</a>{{end}}
</div>
{{template "foot" .}}
{{end}}

{{define "post.html"}}
{{template "head" .}}
<article class="post">
  <h1>{{.Post.Title}}</h1>
  <div class="meta">@{{.Post.Author}} · {{.Post.TimeAgo}} · ⭐ {{.Post.Likes}} · 💬 {{.Post.Comments}}</div>
  {{if .Post.Sealed}}
  <p class="sealed">⏳ This capsule is sealed. It opens in {{.Post.OpensIn}}.</p>
  {{else}}
  <div>{{.Post.ContentHTML}}</div>
  {{end}}
</article>
{{template "foot" .}}
{{end}}

{{define "error.html"}}
{{template "head" .}}
<p>{{.Error}}</p>
{{template "foot" .}}
{{end}}
`

func loadTemplates() *template.Template {
	return template.Must(template.New("pages").Parse(pageTemplates))
}
