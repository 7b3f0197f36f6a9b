// Package views renders the HTML shell served on /.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/Ko-stant/melody-dungeon/internal/protocol"
)

// IndexPage renders the game page with a bootstrap snapshot embedded as
// JSON. The client script replaces it with the live session once the
// stream connects.
func IndexPage(snap protocol.Snapshot, preview string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		bootstrap, err := templ.JSONString(snap)
		if err != nil {
			return fmt.Errorf("encode bootstrap snapshot: %w", err)
		}

		var sb strings.Builder
		sb.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		sb.WriteString(`<title>Melody Dungeon</title><style>` + pageStyle + `</style></head><body>`)
		fmt.Fprintf(&sb, `<header><h1>Melody Dungeon</h1><span id="level">Level %d</span><span id="score">Score %d</span></header>`,
			snap.Level, snap.Score)
		sb.WriteString(`<pre id="map">` + templ.EscapeString(preview) + `</pre>`)
		sb.WriteString(`<div id="message"></div>`)
		sb.WriteString(inventory(snap))
		sb.WriteString(`<p class="help">Arrows/WASD move, E/Space interact, 1-7 play notes.</p>`)
		sb.WriteString(`<script id="bootstrap" type="application/json">` + bootstrap + `</script>`)
		sb.WriteString(`<script>` + clientScript + `</script></body></html>`)

		_, err = io.WriteString(w, sb.String())
		return err
	})
}

// inventory renders one slot per note in palette order.
func inventory(snap protocol.Snapshot) string {
	collected := make(map[string]bool, len(snap.Collected))
	for _, n := range snap.Collected {
		collected[n] = true
	}
	var sb strings.Builder
	sb.WriteString(`<div id="inventory">`)
	for _, p := range snap.Palette {
		class := "note-slot"
		if collected[p.Note] {
			class += " collected"
		}
		fmt.Fprintf(&sb, `<div class="%s" id="note-%s" style="color:%s"><span class="name">%s</span><span class="key">%s</span></div>`,
			class, templ.EscapeString(p.Note), templ.EscapeString(p.Color), templ.EscapeString(p.Note), templ.EscapeString(p.Key))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

const pageStyle = `body{background:#111;color:#ddd;font-family:monospace;margin:2em}
header span{margin-left:1em}#map{font-size:20px;line-height:1}
#inventory{display:flex;gap:.5em}.note-slot{border:1px solid #444;padding:.4em;opacity:.3}
.note-slot.collected{opacity:1}.note-slot.active{background:#333}.help{color:#777}`

const clientScript = `(function(){
const glyph=['.','#','+','/','>','<'];
let snap=JSON.parse(document.getElementById('bootstrap').textContent);
let audio=null;
function tone(note,dur){const p=snap.palette.find(x=>x.note===note);if(!p)return;
audio=audio||new AudioContext();const o=audio.createOscillator(),g=audio.createGain();
o.frequency.value=p.freq;g.gain.value=0.2;o.connect(g).connect(audio.destination);
o.start();o.stop(audio.currentTime+dur);const s=document.getElementById('note-'+note);
if(s){s.classList.add('active');setTimeout(()=>s.classList.remove('active'),200);}}
function draw(){const rows=snap.tiles.map(r=>r.map(t=>glyph[t]));
for(const n of snap.notes){if(!n.collected)rows[n.tile.y][n.tile.x]=n.note;}
rows[snap.player.y][snap.player.x]='@';
document.getElementById('map').textContent=rows.map(r=>r.join('')).join('\n');
document.getElementById('level').textContent='Level '+snap.level;
document.getElementById('score').textContent='Score '+snap.score;
for(const p of snap.palette){const s=document.getElementById('note-'+p.note);
if(s)s.classList.toggle('collected',snap.collected.includes(p.note));}}
function say(t){document.getElementById('message').textContent=t;}
const ws=new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+'/stream');
function send(type,payload){ws.send(JSON.stringify({type:type,payload:payload||{}}));}
function melody(notes){notes.forEach((n,i)=>setTimeout(()=>tone(n,0.3),i*400));
setTimeout(()=>send('RequestMelodyPlayed'),notes.length*400+500);}
ws.onmessage=function(ev){const m=JSON.parse(ev.data),p=m.payload;
switch(m.type){
case 'LevelLoaded':snap=p.snapshot;draw();break;
case 'PlayerMoved':snap.player=p.to;draw();break;
case 'NoteCollected':snap.collected=p.collected;for(const n of snap.notes){if(n.tile.x===p.tile.x&&n.tile.y===p.tile.y)n.collected=true;}tone(p.note,0.15);draw();break;
case 'PuzzleStarted':say('Listen to the melody...');melody(p.melody);break;
case 'PuzzleFailed':say('Wrong note! Listen again...');setTimeout(()=>melody(p.melody),1000);break;
case 'PuzzleInput':tone(p.note,0.3);break;
case 'DoorUnlocked':snap.tiles[p.door.y][p.door.x]=3;say('Door unlocked!');draw();break;
case 'LevelCompleted':say('Level Complete!');break;
case 'Message':say(p.text);break;}};
const moves={ArrowUp:[0,-1],ArrowDown:[0,1],ArrowLeft:[-1,0],ArrowRight:[1,0],w:[0,-1],s:[0,1],a:[-1,0],d:[1,0]};
document.addEventListener('keydown',function(e){
if(moves[e.key]){const d=moves[e.key];send('RequestMove',{dx:d[0],dy:d[1]});e.preventDefault();return;}
if(e.key==='e'||e.key===' '){send('RequestInteract');e.preventDefault();return;}
if(e.key>='1'&&e.key<='7'){send('RequestPlayNote',{note:e.key});}});
draw();})();`
