package shader

// ──────────────────────────────── Effect stages ────────────────────────────────

// EffectVertex positions the full-surface quad and passes 0..1 coordinates.
const EffectVertex = `#version 300 es
in vec2 position;
out vec2 v_texcoord;
void main() {
    gl_Position = vec4(position, 0.0, 1.0);
    v_texcoord = position * 0.5 + 0.5;
}
`

// simplex noise shared by the background effects
const simplexNoise = `
vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 mod289(vec4 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 permute(vec4 x) { return mod289(((x*34.0)+1.0)*x); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float snoise(vec3 v) {
    const vec2 C = vec2(1.0/6.0, 1.0/3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i  = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g = step(x0.yzx, x0.xyz);
    vec3 l = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + C.yyy;
    vec3 x3 = x0 - D.yyy;

    i = mod289(i);
    vec4 p = permute(permute(permute(
               i.z + vec4(0.0, i1.z, i2.z, 1.0))
             + i.y + vec4(0.0, i1.y, i2.y, 1.0))
             + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 0.142857142857;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);

    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);

    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0,p0), dot(p1,p1), dot(p2,p2), dot(p3,p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(NOISE_FALLOFF - vec4(dot(x0,x0), dot(x1,x1), dot(x2,x2), dot(x3,x3)), 0.0);
    m = m * m;
    return NOISE_SCALE * dot(m*m, vec4(dot(p0,x0), dot(p1,x1), dot(p2,x2), dot(p3,x3)));
}
`

// PlasmaFragment draws domain warped smoke over a dark navy background,
// masked to a narrow vertical beam.
const PlasmaFragment = `#version 300 es
precision highp float;

out vec4 fragColor;
uniform vec2 u_resolution;
uniform float u_time;
uniform vec2 u_mouse;

#define NOISE_FALLOFF 0.6
#define NOISE_SCALE 42.0
` + simplexNoise + `
void main() {
    vec2 st = gl_FragCoord.xy / u_resolution.xy;
    st.x *= u_resolution.x / u_resolution.y;

    float time = u_time * 0.05;
    vec3 p = vec3(st * 1.5, time);

    float n1 = snoise(p);
    float n2 = snoise(p + vec3(n1 * 2.0 + time * 0.2, n1 * 3.0 - time * 0.1, 0.0));
    float n3 = snoise(p + vec3(n2 * 4.0 - time * 0.3, n2 * 2.0 + time * 0.1, 0.0));

    float fold = n3 * 0.5 + 0.5;
    float silk = smoothstep(0.2, 0.8, fold);
    float glow = pow(silk, 3.0);

    vec3 bg = vec3(0.01, 0.02, 0.09);
    vec3 purple = vec3(0.5, 0.1, 0.8);
    vec3 blue = vec3(0.1, 0.3, 0.9);
    vec3 smokeColor = mix(blue, purple, n1 * 0.5 + 0.5);

    vec2 uv = gl_FragCoord.xy / u_resolution.xy;
    float centerMask = smoothstep(0.15, 0.0, abs(uv.x - 0.5));

    vec3 finalColor = bg + smokeColor * glow * centerMask * 0.8;
    finalColor *= 1.0 - length(uv - 0.5) * 0.6;

    fragColor = vec4(finalColor, 1.0);
}
`

// HolographicFragment draws a liquid foil gradient from three levels of
// warped fbm noise.
const HolographicFragment = `#version 300 es
precision highp float;

out vec4 fragColor;
uniform float u_time;
uniform vec2 u_resolution;

#define NOISE_FALLOFF 0.5
#define NOISE_SCALE 105.0
` + simplexNoise + `
float fbm(vec3 p) {
    float f = 0.0;
    f += 0.500 * snoise(p); p *= 2.01;
    f += 0.250 * snoise(p); p *= 2.02;
    f += 0.125 * snoise(p);
    return f;
}

void main() {
    vec2 st = gl_FragCoord.xy / u_resolution.xy;
    st.x *= u_resolution.x / u_resolution.y;

    vec3 p = vec3(st * 3.0, u_time * 0.15);
    float n1 = fbm(p);
    vec3 q = p + vec3(n1, n1, 0.0) + vec3(3.2, 1.4, 0.8);
    float n2 = fbm(q);
    vec3 r = p + vec3(n2, n2, 0.0) * 2.0 + vec3(1.7, 9.2, u_time * 0.2);
    float f = fbm(r);

    vec3 color = vec3(0.01, 0.02, 0.09);
    color = mix(color, vec3(0.0, 0.2, 0.6), smoothstep(0.0, 1.0, f));
    float shiny = smoothstep(0.4, 0.9, f * n2);
    color = mix(color, vec3(0.0, 0.95, 1.0), shiny);
    color += vec3(0.8) * smoothstep(0.8, 1.0, f * f);

    float vign = 1.0 - smoothstep(0.5, 1.5, length(st - 0.5) * 1.5);
    color *= vign;

    fragColor = vec4(color, 1.0);
}
`

// ShapeBlurFragment draws a white shape whose edge softens around the
// pointer. u_mouse is in device pixels with a top-left origin.
const ShapeBlurFragment = `#version 300 es
precision highp float;

in vec2 v_texcoord;
out vec4 fragColor;

uniform vec2 u_mouse;
uniform vec2 u_resolution;
uniform float u_pixelRatio;

uniform float u_shapeSize;
uniform float u_roundness;
uniform float u_borderSize;
uniform float u_circleSize;
uniform float u_circleEdge;

#ifndef PI
#define PI 3.1415926535897932384626433832795
#endif
#ifndef TWO_PI
#define TWO_PI 6.2831853071795864769252867665590
#endif

// 0 rounded rect, 1 circle, 2 circle outline, 3 triangle
#ifndef VAR
#define VAR 0
#endif

vec2 coord(in vec2 p) {
    p = p / u_resolution.xy;
    if (u_resolution.x > u_resolution.y) {
        p.x *= u_resolution.x / u_resolution.y;
        p.x += (u_resolution.y - u_resolution.x) / u_resolution.y / 2.0;
    } else {
        p.y *= u_resolution.y / u_resolution.x;
        p.y += (u_resolution.x - u_resolution.y) / u_resolution.x / 2.0;
    }
    p -= 0.5;
    p *= vec2(-1.0, 1.0);
    return p;
}

#define st0 coord(gl_FragCoord.xy)
#define mx coord(u_mouse)

float sdRoundRect(vec2 p, vec2 b, float r) {
    vec2 d = abs(p - 0.5) * 4.2 - b + vec2(r);
    return min(max(d.x, d.y), 0.0) + length(max(d, 0.0)) - r;
}
float sdCircle(in vec2 st, in vec2 center) {
    return length(st - center) * 2.0;
}
float sdPoly(in vec2 p, in float w, in int sides) {
    float a = atan(p.x, p.y) + PI;
    float r = TWO_PI / float(sides);
    float d = cos(floor(0.5 + a / r) * r - a) * length(max(abs(p) * 1.0, 0.0));
    return d * 2.0 - w;
}

float fill(float x, float size, float edge) {
    return 1.0 - smoothstep(size - edge, size + edge, x);
}

float strokeAA(float x, float size, float w, float edge) {
    float afwidth = length(vec2(dFdx(x), dFdy(x))) * 0.70710678;
    float d = smoothstep(size - edge - afwidth, size + edge + afwidth, x + w * 0.5)
            - smoothstep(size - edge - afwidth, size + edge + afwidth, x - w * 0.5);
    return clamp(d, 0.0, 1.0);
}

void main() {
    vec2 st = st0 + 0.5;
    vec2 posMouse = mx * vec2(1., -1.) + 0.5;

    float sdfCircle = fill(sdCircle(st, posMouse), u_circleSize, u_circleEdge);

    float sdf;
    if (VAR == 0) {
        float d = sdRoundRect(st, vec2(u_shapeSize), u_roundness);
        sdf = strokeAA(d, 0.0, u_borderSize, sdfCircle) * 4.0;
    } else if (VAR == 1) {
        sdf = sdCircle(st, vec2(0.5));
        sdf = fill(sdf, 0.6, sdfCircle) * 1.2;
    } else if (VAR == 2) {
        sdf = sdCircle(st, vec2(0.5));
        sdf = strokeAA(sdf, 0.58, 0.02, sdfCircle) * 4.0;
    } else {
        sdf = sdPoly(st - vec2(0.5, 0.45), 0.3, 3);
        sdf = fill(sdf, 0.05, sdfCircle) * 1.4;
    }

    fragColor = vec4(vec3(1.0), sdf);
}
`

// ImageBlurFragment blurs and brightens u_texture around the pointer.
const ImageBlurFragment = `#version 300 es
precision highp float;

in vec2 v_texcoord;
out vec4 fragColor;

uniform sampler2D u_texture;
uniform vec2 u_mouse;
uniform vec2 u_resolution;
uniform float u_pixelRatio;
uniform float u_circleSize;
uniform float u_circleEdge;

float fill(float x, float size, float edge) {
    return 1.0 - smoothstep(size - edge, size + edge, x);
}

void main() {
    vec2 uv = v_texcoord;
    uv.y = 1.0 - uv.y;
    vec4 texColor = texture(u_texture, uv);

    vec2 mouseNorm = u_mouse / u_resolution;
    mouseNorm.y = 1.0 - mouseNorm.y;

    float dist = length(v_texcoord - mouseNorm);
    float blurCircle = fill(dist * 2.0, u_circleSize, u_circleEdge);

    float blurAmount = blurCircle * 0.02;
    vec4 blurred = vec4(0.0);
    float samples = 0.0;
    for (float x = -2.0; x <= 2.0; x += 1.0) {
        for (float y = -2.0; y <= 2.0; y += 1.0) {
            blurred += texture(u_texture, uv + vec2(x, y) * blurAmount);
            samples += 1.0;
        }
    }
    blurred /= samples;

    vec4 finalColor = mix(texColor, blurred, blurCircle * 0.8);
    finalColor.rgb += vec3(blurCircle * 0.3);
    fragColor = finalColor;
}
`

// ────────────────────────────────── Compositor ─────────────────────────────────

const BlitVertex = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const BlitFragment = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
uniform float u_opacity;
void main() {
    vec4 c = texture(u_texture, frag_uv);
    float a = c.a * u_opacity;
    fragColor = vec4(c.rgb * a, a);
}
`

// BlitAttribute is the vertex input of the compositor program.
const BlitAttribute = "in_vert"
